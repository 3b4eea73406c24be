package prompt

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cmbmwifi/cambium-nms-templates/pkg/requirements"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func drive(t *testing.T, m inputModel, msgs ...tea.Msg) inputModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(inputModel)
		if !ok {
			t.Fatalf("unexpected model type %T", next)
		}
	}
	return m
}

func TestTextInputCollectsTypedValue(t *testing.T) {
	m := newInputModel(requirements.InputDefinition{
		Name: "zabbix_api_url", Type: requirements.TypeURL, Prompt: "Zabbix API URL",
	})

	m = drive(t, m,
		keyRunes("http://z"),
		tea.KeyMsg{Type: tea.KeyBackspace},
		keyRunes("zabbix"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	if !m.done || m.cancelled {
		t.Fatalf("done=%v cancelled=%v", m.done, m.cancelled)
	}
	if m.answer() != "http://zzabbix" {
		t.Errorf("answer = %q", m.answer())
	}
}

func TestEscapeCancels(t *testing.T) {
	m := newInputModel(requirements.InputDefinition{
		Name: "x", Type: requirements.TypeText, Prompt: "p",
	})
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.cancelled {
		t.Error("esc must cancel the prompt")
	}
}

func TestBooleanSingleKeyAnswers(t *testing.T) {
	def := requirements.InputDefinition{
		Name: "add_hosts", Type: requirements.TypeBoolean, Prompt: "Add hosts?",
	}

	m := drive(t, newInputModel(def), keyRunes("y"))
	if !m.done || m.answer() != "true" {
		t.Errorf("y -> done=%v answer=%q", m.done, m.answer())
	}

	m = drive(t, newInputModel(def), keyRunes("n"))
	if !m.done || m.answer() != "false" {
		t.Errorf("n -> done=%v answer=%q", m.done, m.answer())
	}

	// Other runes are ignored for booleans; enter accepts the default.
	m = drive(t, newInputModel(def), keyRunes("x"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.done || m.answer() != "" {
		t.Errorf("enter -> done=%v answer=%q", m.done, m.answer())
	}
}

func TestSecretViewNeverShowsValue(t *testing.T) {
	m := newInputModel(requirements.InputDefinition{
		Name: "olt_password", Type: requirements.TypeSecret, Prompt: "OLT password",
	})
	m = drive(t, m, keyRunes("hunter2"))

	view := m.View()
	if strings.Contains(view, "hunter2") {
		t.Error("secret value leaked into the rendered view")
	}
	if !strings.Contains(view, strings.Repeat("*", len("hunter2"))) {
		t.Error("secret input should render one mask character per rune")
	}
}

func TestHelpTextRenderedVerbatim(t *testing.T) {
	help := "line one\n  indented line two\n"
	m := newInputModel(requirements.InputDefinition{
		Name: "tok", Type: requirements.TypeSecret, Prompt: "Token", HelpText: help,
	})

	view := m.View()
	if !strings.Contains(view, "line one") || !strings.Contains(view, "  indented line two") {
		t.Errorf("help text not rendered verbatim:\n%s", view)
	}
}
