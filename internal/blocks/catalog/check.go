package catalog

import (
	"errors"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/construct"
	blockerrors "github.com/nqc-blocks/nqcblocks/internal/blocks/errors"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/types"
)

// Issue is one consistency finding.
type Issue struct {
	Construct string                    `json:"construct"`
	Slot      string                    `json:"slot,omitempty"`
	Code      blockerrors.ErrorCode     `json:"code"`
	Severity  blockerrors.ErrorSeverity `json:"severity"`
	Message   string                    `json:"message"`
}

// Report is the result of Check.
type Report struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// Check verifies the whole catalog:
//   - every construct's role agrees with its connectors;
//   - every value input can be satisfied, either because its constraint is
//     Any or a literal type, or because some construct outputs that type.
//
// The report is computed on first use and reused until the source changes.
func (c *Catalog) Check() Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.src.Version()
	if c.report != nil && c.reportBuilt == v {
		return *c.report
	}
	r := check(c.src.Enumerate())
	c.report = &r
	c.reportBuilt = v
	return r
}

func check(defs []construct.Definition) Report {
	var outputs []types.Type
	for _, def := range defs {
		if out, ok := def.Output(); ok {
			outputs = append(outputs, out)
		}
	}
	satisfiable := func(constraint types.Type) bool {
		if types.IsLiteral(constraint) || constraint.Equals(types.Any) {
			return true
		}
		for _, out := range outputs {
			if types.IsCompatible(out, constraint) {
				return true
			}
		}
		return false
	}

	report := Report{Valid: true, Issues: []Issue{}}
	add := func(err error, slot string) {
		var be *blockerrors.BlockError
		if !errors.As(err, &be) {
			return
		}
		report.Issues = append(report.Issues, Issue{
			Construct: be.Construct,
			Slot:      slot,
			Code:      be.Code,
			Severity:  be.Severity,
			Message:   be.Error(),
		})
		report.Valid = false
	}

	for _, def := range defs {
		if problems := construct.RoleProblems(def); len(problems) > 0 {
			add(blockerrors.NewRoleMismatch(def.Name, problems...), "")
		}
		for _, s := range def.Slots {
			if s.Kind != construct.SlotValue {
				continue
			}
			port, _ := s.Port()
			if !satisfiable(port.Check) {
				add(blockerrors.NewUnsatisfiable(def.Name, s.Name, types.Name(port.Check)), s.Name)
			}
		}
	}
	return report
}
