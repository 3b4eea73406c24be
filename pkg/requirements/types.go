package requirements

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// InputType is the closed set of input kinds the installer understands.
// Coercion and prompt rendering switch exhaustively on it; an unrecognized
// kind is rejected at load time rather than defaulting to text.
type InputType string

const (
	TypeText    InputType = "text"
	TypeURL     InputType = "url"
	TypeSecret  InputType = "secret"
	TypeBoolean InputType = "boolean"
	TypeList    InputType = "list"
)

// Valid reports whether t is one of the recognized input kinds.
func (t InputType) Valid() bool {
	switch t {
	case TypeText, TypeURL, TypeSecret, TypeBoolean, TypeList:
		return true
	}
	return false
}

// UnmarshalYAML validates the kind while decoding so a malformed document
// fails during Load, not at first use.
func (t *InputType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	it := InputType(s)
	if !it.Valid() {
		return fmt.Errorf("unrecognized input type %q", s)
	}
	*t = it
	return nil
}

// DefaultValue is a declared default in its string form. Documents may
// write booleans unquoted; the scalar is captured as written so coercion
// sees the same literal the author typed.
type DefaultValue string

// UnmarshalYAML accepts any scalar and keeps its textual value.
func (d *DefaultValue) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("default must be a scalar, got %v", value.Kind)
	}
	*d = DefaultValue(value.Value)
	return nil
}

// String returns the default as text.
func (d DefaultValue) String() string { return string(d) }

// Metadata identifies the template the bundle installs.
type Metadata struct {
	// Name is the exact template name as it appears in the NMS platform.
	// Lookups, flushes, and macro updates all key on it.
	Name string `yaml:"name" validate:"required"`

	// Description is shown on the welcome screen and in validate output.
	Description string `yaml:"description" validate:"required"`
}

// Compatibility constrains which platform the bundle targets.
type Compatibility struct {
	NMS struct {
		Platform   string `yaml:"platform"`
		MinVersion string `yaml:"min_version"`
	} `yaml:"nms"`
}

// Dependencies lists host packages the collector script needs at runtime.
// The installer surfaces them; it does not install them.
type Dependencies struct {
	SystemPackages []string `yaml:"system_packages"`
}

// Validation carries optional per-input constraints from the document.
type Validation struct {
	Required bool `yaml:"required"`
}

// InputDefinition describes one value the installer must collect.
// Definitions are read-only after Load; their declared order decides
// which names a condition can reference.
type InputDefinition struct {
	// Name is the unique key for the resolved value and for the override
	// lookup table.
	Name string `yaml:"name" validate:"required"`

	// Type selects coercion and prompt rendering.
	Type InputType `yaml:"type" validate:"required"`

	// Prompt is the question shown to the user in interactive mode.
	Prompt string `yaml:"prompt" validate:"required"`

	// Default is used when neither an override nor a prompt supplies a
	// value. Booleans may declare it as a YAML bool.
	Default DefaultValue `yaml:"default"`

	// Condition gates visibility on an earlier input's resolved value.
	// Nil means always visible.
	Condition *Condition `yaml:"condition"`

	// HelpText is free-form multi-line guidance rendered verbatim. It must
	// round-trip byte-for-byte from the document.
	HelpText string `yaml:"help_text"`

	// Example is a sample value shown next to the prompt.
	Example string `yaml:"example"`

	Validation Validation `yaml:"validation"`
}

// Requirements is the parsed requirements document.
type Requirements struct {
	Metadata      Metadata          `yaml:"metadata" validate:"required"`
	Compatibility Compatibility     `yaml:"compatibility"`
	Dependencies  Dependencies      `yaml:"dependencies"`
	UserInputs    []InputDefinition `yaml:"user_inputs" validate:"dive"`
}

// Input returns the definition with the given name, if declared.
func (r *Requirements) Input(name string) (InputDefinition, bool) {
	for _, in := range r.UserInputs {
		if in.Name == name {
			return in, true
		}
	}
	return InputDefinition{}, false
}
