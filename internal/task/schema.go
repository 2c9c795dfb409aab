package task

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskman-go/internal/utils"
)

//go:embed tasks.schema.json
var embeddedSchema []byte

const embeddedSchemaURL = "https://taskman.dev/schemas/tasks.schema.json"

// Schema validates raw task documents.
type Schema struct {
	compiled *jsonschema.Schema
	source   string
}

var (
	defaultSchemaOnce sync.Once
	defaultSchema     *Schema
	defaultSchemaErr  error
)

// DefaultSchema returns the compiled embedded schema.
func DefaultSchema() (*Schema, error) {
	defaultSchemaOnce.Do(func() {
		compiler := newCompiler()
		if err := compiler.AddResource(embeddedSchemaURL, bytes.NewReader(embeddedSchema)); err != nil {
			defaultSchemaErr = fmt.Errorf("add embedded schema: %w", err)
			return
		}
		compiled, err := compiler.Compile(embeddedSchemaURL)
		if err != nil {
			defaultSchemaErr = fmt.Errorf("compile embedded schema: %w", err)
			return
		}
		defaultSchema = &Schema{compiled: compiled, source: "embedded"}
	})
	return defaultSchema, defaultSchemaErr
}

// LoadSchema compiles a schema from a file on disk.
func LoadSchema(path string) (*Schema, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	compiled, err := newCompiler().Compile(absPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema file: %w", err)
	}
	return &Schema{compiled: compiled, source: absPath}, nil
}

func newCompiler() *jsonschema.Compiler {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	return compiler
}

// Source returns "embedded" or the path the schema was loaded from.
func (s *Schema) Source() string {
	if s == nil {
		return ""
	}
	return s.source
}

// Validate checks a raw JSON document. The returned error joins one
// *ValidationError per schema violation.
func (s *Schema) Validate(data []byte) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Err: fmt.Errorf("parse task document: %w", err)}
	}
	if s == nil || s.compiled == nil {
		return nil
	}
	if err := s.compiled.Validate(doc); err != nil {
		return schemaErrors(err)
	}
	return nil
}

func schemaErrors(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &ValidationError{Err: err}
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	return errors.Join(errs...)
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Field: utils.JSONPointerToPath(err.InstanceLocation),
			Err:   errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// Decode validates data against schema (when non-nil) and decodes the task
// list. Records without an id, or repeating an id already used earlier in the
// document, are assigned a stable one via LegacyID. Ids in the result are
// unique.
func Decode(data []byte, schema *Schema) ([]Task, error) {
	if err := schema.Validate(data); err != nil {
		return nil, err
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &ValidationError{Err: fmt.Errorf("decode task document: %w", err)}
	}

	for i := range tasks {
		if !tasks[i].Status.Valid() {
			st, err := ParseStatus(string(tasks[i].Status))
			if err != nil {
				return nil, &ValidationError{
					Field: fmt.Sprintf("[%d].status", i),
					Err:   err,
				}
			}
			tasks[i].Status = st
		}
	}
	if tasks == nil {
		tasks = []Task{}
	}
	assignUniqueIDs(tasks)
	return tasks, nil
}

// Encode writes the task list with 2-space indentation and a trailing
// newline. A nil list encodes as an empty array.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal task list: %w", err)
	}
	return append(data, '\n'), nil
}
