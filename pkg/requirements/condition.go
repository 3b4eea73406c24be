package requirements

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Operator is a comparison operator in a visibility condition. Equality is
// the only recognized operator; anything else fails at load time.
type Operator string

// OpEqual compares the resolved value's textual form against the literal.
const OpEqual Operator = "=="

// Condition gates an input's visibility on an earlier input's value.
// It is parsed once, when the document is loaded, and evaluated as a pure
// function afterwards.
type Condition struct {
	// Variable is the name of an input declared earlier in the document.
	Variable string

	// Op is the comparison operator.
	Op Operator

	// Literal is the right-hand side, compared textually.
	Literal string
}

// ParseCondition parses an expression of the form "variable == literal".
// Quotes around the literal are stripped. Unknown operators or malformed
// expressions are errors.
func ParseCondition(expr string) (*Condition, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty condition expression")
	}

	idx := strings.Index(expr, string(OpEqual))
	if idx < 0 {
		return nil, fmt.Errorf("condition %q: only the %q operator is supported", expr, OpEqual)
	}

	variable := strings.TrimSpace(expr[:idx])
	literal := strings.TrimSpace(expr[idx+len(OpEqual):])

	if variable == "" {
		return nil, fmt.Errorf("condition %q: missing variable name", expr)
	}
	if strings.ContainsAny(variable, " \t") {
		return nil, fmt.Errorf("condition %q: variable name contains whitespace", expr)
	}
	if literal == "" {
		return nil, fmt.Errorf("condition %q: missing comparison literal", expr)
	}
	literal = strings.Trim(literal, `"'`)

	return &Condition{Variable: variable, Op: OpEqual, Literal: literal}, nil
}

// UnmarshalYAML parses the textual condition while the document is decoded
// so malformed expressions surface as schema errors, not at evaluation time.
func (c *Condition) UnmarshalYAML(value *yaml.Node) error {
	var expr string
	if err := value.Decode(&expr); err != nil {
		return err
	}
	parsed, err := ParseCondition(expr)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

// Evaluate reports whether the condition holds given the lookup of
// already-resolved values. The lookup returns the value's textual form and
// whether the variable was resolved at all. A variable that was never
// resolved (skipped upstream, or simply unknown) evaluates to false rather
// than erroring: skipped inputs behave as absent for downstream conditions.
func (c *Condition) Evaluate(lookup func(name string) (string, bool)) bool {
	if c == nil {
		return true
	}
	v, ok := lookup(c.Variable)
	if !ok {
		return false
	}
	return v == c.Literal
}

// String renders the condition in its canonical textual form.
func (c *Condition) String() string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%s %s %s", c.Variable, c.Op, c.Literal)
}
