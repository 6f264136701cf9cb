package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/catalog"
	blockerrors "github.com/nqc-blocks/nqcblocks/internal/blocks/errors"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/types"
	"github.com/nqc-blocks/nqcblocks/internal/cli/ui"
)

type compatResult struct {
	Output     string `json:"output"`
	Constraint string `json:"constraint"`
	Compatible bool   `json:"compatible"`
}

func newCompatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compat <output-type> <constraint>",
		Short: "Check whether an output type fits an input constraint",
		Long: `Report whether a value of the given output type may be plugged into an
input with the given type constraint.

An Any constraint accepts every output. Any other constraint accepts only an
identical type, so an Any output does not fit a Number input.`,
		Example: `  nqcblocks compat Number Number
  nqcblocks compat Boolean Any
  nqcblocks compat Any Number`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, constraint := types.Parse(args[0]), types.Parse(args[1])
			result := compatResult{
				Output:     types.Name(output),
				Constraint: types.Name(constraint),
				Compatible: catalog.IsCompatible(output, constraint),
			}

			out := cmd.OutOrStdout()
			if a.format == "json" {
				return writeJSON(out, result)
			}
			verdict := "incompatible"
			if result.Compatible {
				verdict = "compatible"
			}
			fmt.Fprintf(out, "%s -> %s: %s\n", result.Output, result.Constraint, verdict)
			return nil
		},
	}
}

type connectResult struct {
	Connection catalog.Connection `json:"connection"`
	Valid      bool               `json:"valid"`
	Error      string             `json:"error,omitempty"`
}

func newConnectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "connect <from> <to> [input]",
		Short: "Validate a connection between two constructs",
		Long: `Validate plugging construct <from> into construct <to>.

With an input name, <from> goes into that value or statement input of <to>.
Without one, <from> follows <to> in a statement chain.

Exits with a non-zero status when the connection is rejected.`,
		Example: `  # A sensor reading as the wait duration
  nqcblocks connect sensor_value wait DURATION

  # motor_off directly after motor_on
  nqcblocks connect motor_off motor_on`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.load(cmd)
			if err != nil {
				return err
			}

			conn := catalog.Connection{From: args[0], To: args[1]}
			if len(args) == 3 {
				conn.Input = args[2]
			}
			verr := cat.ValidateConnection(conn)

			out := cmd.OutOrStdout()
			if a.format == "json" {
				result := connectResult{Connection: conn, Valid: verr == nil}
				if verr != nil {
					result.Error = verr.Error()
				}
				if err := writeJSON(out, result); err != nil {
					return err
				}
				if verr != nil {
					return reportedError{verr}
				}
				return nil
			}

			switch {
			case verr == nil:
				ui.WriteSuccess(out, conn.String()+" is valid", a.noColor)
				return nil
			case errors.Is(verr, blockerrors.ErrIncompatible):
				fmt.Fprint(cmd.ErrOrStderr(), ui.ConnectionError(verr.Error(), a.noColor))
			case errors.Is(verr, blockerrors.ErrNotFound):
				var suggestions []string
				for _, name := range []string{conn.From, conn.To} {
					if !a.registry.Has(name) {
						suggestions = append(suggestions, ui.FindSimilar(name, a.registry.Names(), nil)...)
					}
				}
				fmt.Fprint(cmd.ErrOrStderr(), ui.Warning(verr.Error(), suggestions, a.noColor))
			default:
				return verr
			}
			return reportedError{verr}
		},
	}
}
