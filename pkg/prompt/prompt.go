// Package prompt implements the interactive prompt provider on Bubble Tea.
// The resolver treats it as opaque: one definition in, one raw answer out.
package prompt

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cmbmwifi/cambium-nms-templates/pkg/requirements"
	"github.com/cmbmwifi/cambium-nms-templates/pkg/resolver"
)

// Provider renders interactive prompts on the terminal.
type Provider struct {
	opts []tea.ProgramOption
}

// New creates a terminal-backed prompt provider.
func New() *Provider {
	return &Provider{}
}

// Prompt implements resolver.Prompter. A cancelled dialog returns an error
// wrapping resolver.ErrCancelled, which aborts the whole run.
func (p *Provider) Prompt(def requirements.InputDefinition) (string, error) {
	final, err := tea.NewProgram(newInputModel(def), p.opts...).Run()
	if err != nil {
		return "", fmt.Errorf("prompt for %q: %w", def.Name, err)
	}

	m, ok := final.(inputModel)
	if !ok {
		return "", fmt.Errorf("prompt for %q: unexpected model %T", def.Name, final)
	}
	if m.cancelled {
		return "", resolver.ErrCancelled
	}
	return m.answer(), nil
}
