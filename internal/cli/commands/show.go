package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/catalog"
	blockerrors "github.com/nqc-blocks/nqcblocks/internal/blocks/errors"
	"github.com/nqc-blocks/nqcblocks/internal/cli/ui"
)

// selectConstruct asks the user to pick a construct. Tests replace it.
var selectConstruct = func(names []string) (string, error) {
	var name string
	prompt := &survey.Select{
		Message:  "Select a construct:",
		Options:  names,
		PageSize: 15,
	}
	if err := survey.AskOne(prompt, &name); err != nil {
		return "", err
	}
	return name, nil
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show the ports and fields of one construct",
		Long: `Show the resolved signature of one construct: its role, connectors,
value and statement inputs with their type constraints, and editable fields
with their defaults and options.

Without a name, an interactive list of constructs is shown.`,
		Example: `  # Show the wait block
  nqcblocks show wait

  # Pick a construct interactively
  nqcblocks show`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.load(cmd)
			if err != nil {
				return err
			}

			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				name, err = selectConstruct(a.registry.Names())
				if err != nil {
					return err
				}
			}

			sig, err := cat.Signature(name)
			if errors.Is(err, blockerrors.ErrNotFound) {
				suggestions := ui.FindSimilar(name, a.registry.Names(), nil)
				fmt.Fprint(cmd.ErrOrStderr(), ui.ConstructNotFoundError(name, suggestions, a.noColor))
				return reportedError{err}
			}
			if err != nil {
				return err
			}

			result := showResult{Signature: sig, Decorations: a.registry.Mutations(name)}
			if a.format == "json" {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			renderSignature(cmd, result, a.noColor)
			return nil
		},
	}
}

// showResult is a signature plus the decoration tags composed on the
// construct, in composition order.
type showResult struct {
	catalog.Signature
	Decorations []string `json:"decorations"`
}

func renderSignature(cmd *cobra.Command, res showResult, noColor bool) {
	sig := res.Signature
	out := cmd.OutOrStdout()
	ui.Header(out, sig.Name, noColor)

	kv := ui.NewKeyValueTable(out, noColor)
	kv.AddRow("Role", sig.Role.String())
	if sig.Category != "" {
		kv.AddRow("Category", sig.Category)
	}
	kv.AddRow("Colour", sig.Color)
	if sig.HasOutput() {
		kv.AddRow("Output", sig.Output)
	}
	kv.AddRow("Previous", strconv.FormatBool(sig.Previous))
	kv.AddRow("Next", strconv.FormatBool(sig.Next))
	if sig.HelpText != "" {
		kv.AddRow("Help", sig.HelpText)
	}
	kv.Render()
	fmt.Fprintln(out)

	if len(sig.Inputs) > 0 {
		section := ui.NewSection(out, "Inputs", noColor)
		for _, in := range sig.Inputs {
			section.AddLine(fmt.Sprintf("%s (%s) %s", in.Name, in.Kind, in.Check))
		}
		section.Render()
	}

	if len(sig.Fields) > 0 {
		section := ui.NewSection(out, "Fields", noColor)
		for _, f := range sig.Fields {
			line := fmt.Sprintf("%s = %s", f.Name, f.Default)
			if len(f.Options) > 0 {
				labels := make([]string, len(f.Options))
				for i, o := range f.Options {
					labels[i] = o.Label
				}
				line += " [" + strings.Join(labels, ", ") + "]"
			}
			section.AddLine(line)
		}
		section.Render()
	}

	if len(res.Decorations) > 0 {
		ui.Header(out, "Decorations", noColor)
		list := ui.NewList(out, ui.ListOptions{Numbered: true, NoColor: noColor})
		for _, tag := range res.Decorations {
			list.AddItem(tag)
		}
		list.Render()
	}
}
