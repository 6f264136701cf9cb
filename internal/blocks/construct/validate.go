package construct

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	blockerrors "github.com/nqc-blocks/nqcblocks/internal/blocks/errors"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/types"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidColor reports whether c is a "#RRGGBB" colour or a hue in [0,360].
func ValidColor(c string) bool {
	if hexColor.MatchString(c) {
		return true
	}
	hue, err := strconv.Atoi(c)
	return err == nil && hue >= 0 && hue <= 360
}

// Validate checks the definition's shape and returns an InvalidDefinition
// error listing every problem, or nil.
func (d Definition) Validate() error {
	var problems []string
	if strings.TrimSpace(d.Name) == "" {
		problems = append(problems, "name is empty")
	}
	problems = append(problems, RoleProblems(d)...)
	problems = append(problems, slotProblems(d)...)
	if !ValidColor(d.Color) {
		problems = append(problems, fmt.Sprintf("colour %q is neither #RRGGBB nor a hue in [0,360]", d.Color))
	}
	if len(problems) > 0 {
		return blockerrors.NewInvalidDefinition(d.Name, problems...)
	}
	return nil
}

// RoleProblems checks that the connectors agree with the role:
//
//	statement   exactly one prev, at most one next, no output
//	expression  exactly one output, no prev or next
//	hybrid      exactly one prev, at most one next, exactly one output
//	top_level   no connectors
func RoleProblems(d Definition) []string {
	var prev, next, out int
	var problems []string
	for _, p := range d.Connectors {
		switch p.Kind {
		case types.StatementPrev:
			prev++
		case types.StatementNext:
			next++
		case types.ValueOutput:
			out++
		default:
			problems = append(problems, fmt.Sprintf("%s is not a top-level connector", p.Kind))
		}
	}

	switch d.Role {
	case RoleStatement:
		if prev != 1 {
			problems = append(problems, fmt.Sprintf("statement construct must expose exactly one previous link, has %d", prev))
		}
		if next > 1 {
			problems = append(problems, fmt.Sprintf("statement construct may expose at most one next link, has %d", next))
		}
		if out > 0 {
			problems = append(problems, "statement construct must not declare a value output")
		}
	case RoleExpression:
		if out != 1 {
			problems = append(problems, fmt.Sprintf("expression construct must declare exactly one value output, has %d", out))
		}
		if prev > 0 || next > 0 {
			problems = append(problems, "expression construct must not expose statement links")
		}
	case RoleHybrid:
		if prev != 1 {
			problems = append(problems, fmt.Sprintf("hybrid construct must expose exactly one previous link, has %d", prev))
		}
		if next > 1 {
			problems = append(problems, fmt.Sprintf("hybrid construct may expose at most one next link, has %d", next))
		}
		if out != 1 {
			problems = append(problems, fmt.Sprintf("hybrid construct must declare exactly one value output, has %d", out))
		}
	case RoleTopLevel:
		if prev+next+out > 0 {
			problems = append(problems, "top-level construct must not expose connectors")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown role %d", int(d.Role)))
	}
	return problems
}

func slotProblems(d Definition) []string {
	var problems []string
	names := make(map[string]bool)
	claim := func(name, what string) {
		if names[name] {
			problems = append(problems, fmt.Sprintf("%s name %q is not unique", what, name))
		}
		names[name] = true
	}

	for i, s := range d.Slots {
		switch s.Kind {
		case SlotDummy:
		case SlotValue, SlotStatement:
			if strings.TrimSpace(s.Name) == "" {
				problems = append(problems, fmt.Sprintf("%s slot %d is missing a name", s.Kind, i))
			} else {
				claim(s.Name, "input")
			}
		default:
			problems = append(problems, fmt.Sprintf("slot %d has unknown kind %d", i, int(s.Kind)))
		}
		for _, f := range s.Fields {
			problems = append(problems, f.Validate()...)
			if f.Editable() && f.Name != "" {
				claim(f.Name, "field")
			}
		}
	}
	return problems
}
