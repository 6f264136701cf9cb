package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/catalog"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/construct"
	"github.com/nqc-blocks/nqcblocks/internal/cli/ui"
)

// listEntry is one row of the list command's output.
type listEntry struct {
	Name     string         `json:"name"`
	Role     construct.Role `json:"role"`
	Category string         `json:"category"`
	Color    string         `json:"color"`
}

func newListCommand(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every construct in the catalog",
		Long: `List every construct in the catalog, grouped by palette category.
Categories appear in the order their first construct was registered: the
standard blocks first, then the NQC blocks and any extra catalog documents.

Colours are shown after decorations, as the editor renders them.`,
		Example: `  # List all constructs
  nqcblocks list

  # Only the motor blocks, as JSON
  nqcblocks list --category motor --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.load(cmd)
			if err != nil {
				return err
			}

			byName := make(map[string]catalog.Entry)
			for _, e := range cat.Enumerate() {
				byName[e.Definition.Name] = e
			}

			// Rows are grouped by palette category
			var entries []listEntry
			for _, group := range cat.ByCategory() {
				if category != "" && group.Category != category {
					continue
				}
				for _, name := range group.Names {
					e, ok := byName[name]
					if !ok {
						continue
					}
					entries = append(entries, listEntry{
						Name:     e.Signature.Name,
						Role:     e.Signature.Role,
						Category: e.Signature.Category,
						Color:    e.Signature.Color,
					})
				}
			}

			out := cmd.OutOrStdout()
			if a.format == "json" {
				if entries == nil {
					entries = []listEntry{}
				}
				return writeJSON(out, entries)
			}

			if len(entries) == 0 {
				fmt.Fprint(out, ui.Info(fmt.Sprintf("No constructs in category %q.", category), a.noColor))
				return nil
			}
			table := ui.NewTable(out, []string{"Name", "Role", "Category", "Colour"}, &ui.TableOptions{NoColor: a.noColor})
			for _, e := range entries {
				table.AddRow(e.Name, e.Role.String(), e.Category, e.Color)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list constructs in this palette category")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
