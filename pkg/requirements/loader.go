package requirements

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the requirements document's name inside a template bundle.
const FileName = "requirements.yaml"

// SchemaError reports a malformed or incomplete requirements document.
// It is fatal and pre-flight: nothing has been collected or mutated yet.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid requirements document %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid requirements document: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Hint returns a remediation hint for the operator.
func (e *SchemaError) Hint() string {
	return "check the bundle's requirements.yaml: metadata.name, metadata.description and every input's name, type and prompt are required"
}

// Loader parses and validates requirements documents.
type Loader struct {
	validate *validator.Validate
}

// NewLoader creates a loader with struct validation wired in.
func NewLoader() *Loader {
	return &Loader{validate: validator.New()}
}

// Load reads and parses the requirements document from a bundle directory
// or a direct file path. It has no side effects beyond reading the file.
func (l *Loader) Load(path string) (*Requirements, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &SchemaError{Path: path, Err: err}
	}
	if info.IsDir() {
		path = filepath.Join(path, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SchemaError{Path: path, Err: err}
	}

	req, err := l.Parse(data)
	if err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			se.Path = path
			return nil, se
		}
		return nil, &SchemaError{Path: path, Err: err}
	}
	return req, nil
}

// Parse decodes and validates a requirements document.
func (l *Loader) Parse(data []byte) (*Requirements, error) {
	var req Requirements
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, &SchemaError{Err: err}
	}

	if err := l.validate.Struct(&req); err != nil {
		return nil, &SchemaError{Err: err}
	}

	// Input names are the keys of the resolved configuration; duplicates
	// would make later values unreachable. Conditions referencing names
	// that are never resolved simply evaluate to false, so they are not
	// rejected here.
	declared := make(map[string]struct{}, len(req.UserInputs))
	for _, in := range req.UserInputs {
		if _, dup := declared[in.Name]; dup {
			return nil, &SchemaError{Err: fmt.Errorf("duplicate input name %q", in.Name)}
		}
		declared[in.Name] = struct{}{}
	}

	return &req, nil
}
