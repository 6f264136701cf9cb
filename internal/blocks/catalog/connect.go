package catalog

import (
	"fmt"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/construct"
	blockerrors "github.com/nqc-blocks/nqcblocks/internal/blocks/errors"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/types"
)

// Connection is a proposed edge: From plugs into To. Input names the value
// or statement input of To; an empty Input means From follows To in a
// statement chain.
type Connection struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Input string `json:"input,omitempty"`
}

func (c Connection) String() string {
	if c.Input == "" {
		return fmt.Sprintf("%s -> %s.next", c.From, c.To)
	}
	return fmt.Sprintf("%s -> %s.%s", c.From, c.To, c.Input)
}

// ValidateConnection checks a proposed connection against both constructs'
// ports. It fails with ErrNotFound for unknown constructs or inputs and with
// ErrIncompatible when the ports do not fit.
func (c *Catalog) ValidateConnection(conn Connection) error {
	from, err := c.src.Lookup(conn.From)
	if err != nil {
		return err
	}
	to, err := c.src.Lookup(conn.To)
	if err != nil {
		return err
	}

	if conn.Input == "" {
		if !to.HasNext() {
			return blockerrors.NewIncompatible(from.Name, to.Name, "target has no next link")
		}
		if !from.HasPrevious() {
			return blockerrors.NewIncompatible(from.Name, to.Name, "source has no previous link")
		}
		return nil
	}

	slot, ok := to.Slot(conn.Input)
	if !ok {
		return blockerrors.NewSlotNotFound(to.Name, conn.Input)
	}

	switch slot.Kind {
	case construct.SlotValue:
		out, ok := from.Output()
		if !ok {
			return blockerrors.NewIncompatible(from.Name, to.Name,
				fmt.Sprintf("source has no value output for input %s", slot.Name))
		}
		port, _ := slot.Port()
		if !types.IsCompatible(out, port.Check) {
			return blockerrors.NewIncompatible(from.Name, to.Name,
				fmt.Sprintf("output %s does not satisfy input %s:%s", types.Name(out), slot.Name, types.Name(port.Check)))
		}
	case construct.SlotStatement:
		if !from.HasPrevious() {
			return blockerrors.NewIncompatible(from.Name, to.Name,
				fmt.Sprintf("source has no previous link for statement input %s", slot.Name))
		}
	}
	return nil
}
