package resolver

import (
	"fmt"

	"github.com/cmbmwifi/cambium-nms-templates/pkg/requirements"
)

// Masked replaces secret values anywhere they would be rendered.
const Masked = "******"

// Value is one resolved input. Text is the canonical textual form used for
// condition evaluation and display; typed accessors are filled per kind.
type Value struct {
	Type requirements.InputType
	Text string
	Bool bool
	List []string
}

// Display renders the value for logs and summaries. Secrets are always
// masked; they must never reach a non-interactive log in clear text.
func (v Value) Display() string {
	if v.Type == requirements.TypeSecret {
		return Masked
	}
	return v.Text
}

// Config is the resolved configuration for a single installer run. It is
// built incrementally by the resolver (keys are set at most once) and
// frozen before reconciliation begins; reconciliation only reads it.
// It is deliberately an explicit, passed-around object, never a process
// global.
type Config struct {
	values map[string]Value
	order  []string
	frozen bool
}

// NewConfig creates an empty configuration builder.
func NewConfig() *Config {
	return &Config{values: make(map[string]Value)}
}

// Set records a resolved value. A key can be set only once and never after
// Freeze.
func (c *Config) Set(name string, v Value) error {
	if c.frozen {
		return fmt.Errorf("configuration is frozen, cannot set %q", name)
	}
	if _, exists := c.values[name]; exists {
		return fmt.Errorf("configuration key %q already resolved", name)
	}
	c.values[name] = v
	c.order = append(c.order, name)
	return nil
}

// Freeze makes the configuration read-only for the rest of the run.
func (c *Config) Freeze() { c.frozen = true }

// IsSet reports whether the input was resolved. Conditionally skipped
// inputs are never set.
func (c *Config) IsSet(name string) bool {
	_, ok := c.values[name]
	return ok
}

// String returns the textual form of a resolved value, or "" when unset.
func (c *Config) String(name string) string {
	return c.values[name].Text
}

// Bool returns the boolean value of a resolved input; false when unset.
func (c *Config) Bool(name string) bool {
	return c.values[name].Bool
}

// List returns the list value of a resolved input; nil when unset.
func (c *Config) List(name string) []string {
	return c.values[name].List
}

// Value returns the full resolved value.
func (c *Config) Value(name string) (Value, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Names returns the resolved keys in resolution order.
func (c *Config) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// lookup adapts the configuration to the condition grammar: it exposes the
// textual form of already-resolved values only.
func (c *Config) lookup(name string) (string, bool) {
	v, ok := c.values[name]
	return v.Text, ok
}
