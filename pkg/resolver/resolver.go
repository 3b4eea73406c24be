package resolver

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cmbmwifi/cambium-nms-templates/pkg/requirements"
)

// ErrCancelled is returned when the user aborts an interactive prompt.
// Cancellation is fatal for the whole run; nothing is retried.
var ErrCancelled = errors.New("cancelled by user")

// Prompter collects one value interactively. Implementations render the
// definition's prompt, default, help text and example however they like;
// the resolver only cares about the raw answer. A cancelled prompt returns
// an error wrapping ErrCancelled.
type Prompter interface {
	Prompt(def requirements.InputDefinition) (string, error)
}

// Options configures a Resolver.
type Options struct {
	// Overrides is the external override source. May be nil.
	Overrides OverrideSource

	// Prompter collects values interactively. Nil means non-interactive:
	// inputs without an override fall back to their declared default.
	Prompter Prompter

	// Logger receives one masked line per resolved input.
	Logger zerolog.Logger
}

// Resolver walks input definitions and builds the run configuration.
type Resolver struct {
	overrides OverrideSource
	prompter  Prompter
	log       zerolog.Logger
}

// New creates a resolver.
func New(opts Options) *Resolver {
	return &Resolver{
		overrides: opts.Overrides,
		prompter:  opts.Prompter,
		log:       opts.Logger.With().Str("component", "resolver").Logger(),
	}
}

// Visible returns, in declared order, the inputs that must be collected
// given the values resolved so far. It is a pure function: no I/O, no
// mutation.
func Visible(inputs []requirements.InputDefinition, cfg *Config) []requirements.InputDefinition {
	var out []requirements.InputDefinition
	for _, in := range inputs {
		if in.Condition.Evaluate(cfg.lookup) {
			out = append(out, in)
		}
	}
	return out
}

// Resolve collects every visible input into a frozen configuration.
//
// Definitions are processed strictly in declared order, so a condition can
// only ever see earlier inputs; the configuration it evaluates against is
// the partial one built up to that point. Inputs whose condition is false
// never appear in the result.
func (r *Resolver) Resolve(inputs []requirements.InputDefinition) (*Config, error) {
	cfg := NewConfig()

	for _, in := range inputs {
		if !in.Condition.Evaluate(cfg.lookup) {
			r.log.Debug().
				Str("input", in.Name).
				Str("condition", in.Condition.String()).
				Msg("input skipped, condition not met")
			continue
		}

		val, source, err := r.resolveOne(in)
		if err != nil {
			return nil, err
		}
		if err := cfg.Set(in.Name, val); err != nil {
			return nil, err
		}

		r.log.Debug().
			Str("input", in.Name).
			Str("source", source).
			Str("value", val.Display()).
			Msg("input resolved")
	}

	cfg.Freeze()
	return cfg, nil
}

// resolveOne applies the value-source priority for a single visible input:
// non-empty override, then prompt, then declared default.
func (r *Resolver) resolveOne(in requirements.InputDefinition) (Value, string, error) {
	if r.overrides != nil {
		if raw, ok := r.overrides.Lookup(in.Name); ok && raw != "" {
			return Coerce(in.Type, raw), "override", nil
		}
	}

	if r.prompter != nil {
		raw, err := r.prompter.Prompt(in)
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				return Value{}, "", fmt.Errorf("collecting %q: %w", in.Name, err)
			}
			return Value{}, "", fmt.Errorf("prompt for %q failed: %w", in.Name, err)
		}
		if raw == "" {
			raw = in.Default.String()
		}
		return Coerce(in.Type, raw), "prompt", nil
	}

	return Coerce(in.Type, in.Default.String()), "default", nil
}
