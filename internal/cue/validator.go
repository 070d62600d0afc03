package cue

import (
	"embed"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/dotcommander/igbcscore/internal/project"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// SchemaProject is the schema of project snapshot files.
const SchemaProject = "project"

// ValidationError represents a validation error
type ValidationError struct {
	File     string `json:"file,omitempty"`
	Path     string `json:"path,omitempty"` // dotted field path, empty for whole-document errors
	Message  string `json:"message"`
	Severity string `json:"severity"` // error or warning
}

// String renders the error as "file: path: message".
func (e ValidationError) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{e.File, e.Path, e.Message} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ": ")
}

// Validator handles CUE validation
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// LoadSchemas compiles every embedded schema file.
func (v *Validator) LoadSchemas() error {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("could not read embedded schemas: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return fmt.Errorf("could not read schema %s: %w", entry.Name(), err)
		}

		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if instErr := inst.Err(); instErr != nil {
			return fmt.Errorf("could not compile schema %s: %w", entry.Name(), instErr)
		}

		// project.cue -> project
		v.schemas[strings.TrimSuffix(entry.Name(), ".cue")] = inst.Value()
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas loaded")
	}
	return nil
}

// Schemas returns the names of the loaded schemas.
func (v *Validator) Schemas() []string {
	names := make([]string, 0, len(v.schemas))
	for name := range v.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateProject validates a decoded snapshot document.
func (v *Validator) ValidateProject(data map[string]any) ([]ValidationError, error) {
	schema, ok := v.schemas[SchemaProject]
	if !ok {
		return nil, fmt.Errorf("schema %q not loaded", SchemaProject)
	}
	return v.validateAgainstSchema(schema, data, SchemaProject)
}

// ValidateFile reads a snapshot file and validates it. Files that cannot be
// parsed are reported as a single validation error.
func (v *Validator) ValidateFile(path string) ([]ValidationError, error) {
	doc, err := project.ReadDocument(path)
	if err != nil {
		return []ValidationError{{File: path, Message: err.Error(), Severity: "error"}}, nil
	}
	errs, err := v.ValidateProject(doc)
	if err != nil {
		return nil, err
	}
	for i := range errs {
		errs[i].File = path
	}
	return errs, nil
}

// validateAgainstSchema validates data against a CUE schema
func (v *Validator) validateAgainstSchema(schema cue.Value, data map[string]any, schemaType string) ([]ValidationError, error) {
	dataValue := v.ctx.Encode(data)
	if encErr := dataValue.Err(); encErr != nil {
		return nil, fmt.Errorf("error encoding data: %w", encErr)
	}

	// project -> #Project
	defPath := cue.ParsePath(fmt.Sprintf("#%s", strings.ToUpper(schemaType[:1])+schemaType[1:]))
	def := schema.LookupPath(defPath)
	if !def.Exists() {
		return nil, fmt.Errorf("schema %q has no definition %s", schemaType, defPath)
	}

	unified := def.Unify(dataValue)
	if err := unified.Err(); err != nil {
		return extractErrorsFromCUE(err), nil
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return extractErrorsFromCUE(err), nil
	}
	return nil, nil
}

// extractErrorsFromCUE flattens a CUE error into one entry per distinct
// path and message.
func extractErrorsFromCUE(err error) []ValidationError {
	var out []ValidationError
	seen := make(map[string]bool)
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		ve := ValidationError{
			Path:     strings.Join(e.Path(), "."),
			Message:  fmt.Sprintf(format, args...),
			Severity: "error",
		}
		key := ve.Path + "\x00" + ve.Message
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ve)
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Message: fmt.Sprintf("schema validation failed: %v", err), Severity: "error"})
	}
	return out
}
