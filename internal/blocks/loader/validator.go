package loader

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	blockerrors "github.com/nqc-blocks/nqcblocks/internal/blocks/errors"
)

//go:embed schema/catalog.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// Issue is one schema violation.
type Issue struct {
	Path    string `json:"path"`
	Keyword string `json:"keyword"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError reports every schema violation in a catalog document.
// It matches errors.ErrInvalidDocument.
type ValidationError struct {
	Source string
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("%s: schema validation failed: %s", e.Source, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	problems := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		problems[i] = issue.String()
	}
	return blockerrors.NewInvalidDocument(e.Source, problems...)
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("catalog.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("catalog.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// validate checks raw YAML against the catalog schema. Schema messages are
// rendered with a printer for locale.
func validate(data []byte, source string, locale language.Tag) error {
	schema, err := getSchema()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%s: parsing YAML: %w", source, err)
	}
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%s: converting to JSON: %w", source, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("%s: preparing JSON for validation: %w", source, err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("%s: unexpected validation error type: %w", source, err)
	}

	printer := message.NewPrinter(locale)
	var issues []Issue
	collectIssues(ve, printer, &issues)
	if len(issues) == 0 {
		issues = []Issue{{Message: ve.Error()}}
	}
	return &ValidationError{Source: source, Issues: dedupe(issues)}
}

// collectIssues walks the error tree down to the leaves.
func collectIssues(ve *jsonschema.ValidationError, printer *message.Printer, issues *[]Issue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, printer, issues)
		}
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	keyword, msg := "", ""
	if ve.ErrorKind != nil {
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
		msg = ve.ErrorKind.LocalizedString(printer)
	}
	if keyword == "allOf" || keyword == "$ref" || keyword == "" {
		return
	}
	*issues = append(*issues, Issue{Path: path, Keyword: keyword, Message: msg})
}

func dedupe(issues []Issue) []Issue {
	seen := make(map[Issue]bool)
	var out []Issue
	for _, issue := range issues {
		if !seen[issue] {
			seen[issue] = true
			out = append(out, issue)
		}
	}
	return out
}
