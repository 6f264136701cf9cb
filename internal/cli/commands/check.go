package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nqc-blocks/nqcblocks/internal/cli/ui"
)

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the catalog for consistency",
		Long: `Check the whole catalog:

  • every construct's role agrees with its connectors
  • every value input can be filled, by a literal or by some construct's output

Exits with a non-zero status when any issue is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.load(cmd)
			if err != nil {
				return err
			}

			report := cat.Check()
			out := cmd.OutOrStdout()

			if a.format == "json" {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else if report.Valid {
				ui.WriteSuccess(out, fmt.Sprintf("catalog is consistent (%d constructs)", a.registry.Len()), a.noColor)
			} else {
				table := ui.NewTable(out, []string{"Code", "Severity", "Construct", "Input", "Message"}, &ui.TableOptions{NoColor: a.noColor})
				for _, issue := range report.Issues {
					table.AddRow(string(issue.Code), string(issue.Severity), issue.Construct, issue.Slot, issue.Message)
				}
				table.Render()
			}

			if !report.Valid {
				return reportedError{fmt.Errorf("catalog has %d issue(s)", len(report.Issues))}
			}
			return nil
		},
	}
}
