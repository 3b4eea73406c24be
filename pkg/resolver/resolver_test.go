package resolver

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cmbmwifi/cambium-nms-templates/pkg/requirements"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func mustCondition(t *testing.T, expr string) *requirements.Condition {
	t.Helper()
	c, err := requirements.ParseCondition(expr)
	if err != nil {
		t.Fatalf("ParseCondition(%q): %v", expr, err)
	}
	return c
}

// promptRecorder records which inputs were prompted and replays canned
// answers.
type promptRecorder struct {
	answers  map[string]string
	prompted []string
	err      error
}

func (p *promptRecorder) Prompt(def requirements.InputDefinition) (string, error) {
	p.prompted = append(p.prompted, def.Name)
	if p.err != nil {
		return "", p.err
	}
	return p.answers[def.Name], nil
}

func hostInputs(t *testing.T) []requirements.InputDefinition {
	return []requirements.InputDefinition{
		{Name: "add_hosts", Type: requirements.TypeBoolean, Prompt: "Add hosts?", Default: "false"},
		{Name: "olt_ip_addresses", Type: requirements.TypeList, Prompt: "Addresses",
			Condition: mustCondition(t, "add_hosts == true")},
	}
}

func TestResolveSkipsInputWithFalseCondition(t *testing.T) {
	r := New(Options{Logger: testLogger()})

	cfg, err := r.Resolve(hostInputs(t))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if cfg.Bool("add_hosts") {
		t.Error("add_hosts should default to false")
	}
	if cfg.IsSet("olt_ip_addresses") {
		t.Error("olt_ip_addresses must be absent when add_hosts is false")
	}
}

func TestResolveCollectsInputWhenConditionHolds(t *testing.T) {
	r := New(Options{
		Overrides: MapOverrides{
			"add_hosts":        "true",
			"olt_ip_addresses": "10.0.0.1, 10.0.0.2",
		},
		Logger: testLogger(),
	})

	cfg, err := r.Resolve(hostInputs(t))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	got := cfg.List("olt_ip_addresses")
	if len(got) != 2 || got[0] != "10.0.0.1" || got[1] != "10.0.0.2" {
		t.Errorf("olt_ip_addresses = %v", got)
	}
}

func TestResolveConditionOnSkippedInputIsFalse(t *testing.T) {
	// enable was skipped (its own condition is false), so the chained
	// condition sees an absent value and evaluates false, without error.
	inputs := []requirements.InputDefinition{
		{Name: "root", Type: requirements.TypeBoolean, Prompt: "p", Default: "false"},
		{Name: "enable", Type: requirements.TypeBoolean, Prompt: "p", Default: "true",
			Condition: mustCondition(t, "root == true")},
		{Name: "detail", Type: requirements.TypeText, Prompt: "p", Default: "x",
			Condition: mustCondition(t, "enable == true")},
	}

	cfg, err := New(Options{Logger: testLogger()}).Resolve(inputs)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.IsSet("enable") || cfg.IsSet("detail") {
		t.Errorf("chained conditional inputs should be absent; resolved %v", cfg.Names())
	}
}

func TestResolveOverridesSuppressPrompting(t *testing.T) {
	prompter := &promptRecorder{}
	r := New(Options{
		Overrides: MapOverrides{
			"add_hosts":        "true",
			"olt_ip_addresses": "10.0.0.1",
		},
		Prompter: prompter,
		Logger:   testLogger(),
	})

	if _, err := r.Resolve(hostInputs(t)); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(prompter.prompted) != 0 {
		t.Errorf("prompter must not be invoked when overrides cover all inputs; prompted %v", prompter.prompted)
	}
}

func TestResolveEmptyOverrideFallsThroughToPrompt(t *testing.T) {
	prompter := &promptRecorder{answers: map[string]string{"name": "from-prompt"}}
	inputs := []requirements.InputDefinition{
		{Name: "name", Type: requirements.TypeText, Prompt: "p"},
	}

	cfg, err := New(Options{
		Overrides: MapOverrides{"name": ""},
		Prompter:  prompter,
		Logger:    testLogger(),
	}).Resolve(inputs)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.String("name") != "from-prompt" {
		t.Errorf("empty override must not win; got %q", cfg.String("name"))
	}
}

func TestResolveEmptyPromptAnswerUsesDefault(t *testing.T) {
	prompter := &promptRecorder{answers: map[string]string{}}
	inputs := []requirements.InputDefinition{
		{Name: "flush", Type: requirements.TypeBoolean, Prompt: "p", Default: "true"},
	}

	cfg, err := New(Options{Prompter: prompter, Logger: testLogger()}).Resolve(inputs)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !cfg.Bool("flush") {
		t.Error("empty prompt answer should fall back to the declared default")
	}
}

func TestResolveCancelledPromptIsFatal(t *testing.T) {
	prompter := &promptRecorder{err: ErrCancelled}
	inputs := []requirements.InputDefinition{
		{Name: "name", Type: requirements.TypeText, Prompt: "p"},
	}

	_, err := New(Options{Prompter: prompter, Logger: testLogger()}).Resolve(inputs)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestConfigSetOnceAndFreeze(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Set("k", Value{Type: requirements.TypeText, Text: "v"}); err != nil {
		t.Fatalf("first Set failed: %v", err)
	}
	if err := cfg.Set("k", Value{Type: requirements.TypeText, Text: "other"}); err == nil {
		t.Error("second Set of the same key must fail")
	}
	cfg.Freeze()
	if err := cfg.Set("new", Value{Type: requirements.TypeText, Text: "v"}); err == nil {
		t.Error("Set after Freeze must fail")
	}
	if cfg.String("k") != "v" {
		t.Errorf("String(k) = %q", cfg.String("k"))
	}
}

func TestNonInteractiveRequiresBothConnectionOverrides(t *testing.T) {
	tests := []struct {
		name string
		src  OverrideSource
		want bool
	}{
		{"both", MapOverrides{InputAPIURL: "http://z", InputAPIToken: "tok"}, true},
		{"url only", MapOverrides{InputAPIURL: "http://z"}, false},
		{"token only", MapOverrides{InputAPIToken: "tok"}, false},
		{"neither", MapOverrides{}, false},
		{"nil source", nil, false},
		{"other overrides do not count", MapOverrides{InputAddHosts: "true", InputOLTPassword: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NonInteractive(tt.src); got != tt.want {
				t.Errorf("NonInteractive = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnvOverridesUsesExplicitMapping(t *testing.T) {
	env := map[string]string{
		"ZABBIX_API_URL": "http://zabbix.local",
		"OLT_IPS":        "10.0.0.1",
	}
	src := &EnvOverrides{lookupEnv: func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}}

	if v, ok := src.Lookup(InputAPIURL); !ok || v != "http://zabbix.local" {
		t.Errorf("Lookup(zabbix_api_url) = %q, %v", v, ok)
	}
	// The list input maps to OLT_IPS, not OLT_IP_ADDRESSES.
	if v, ok := src.Lookup(InputOLTAddresses); !ok || v != "10.0.0.1" {
		t.Errorf("Lookup(olt_ip_addresses) = %q, %v", v, ok)
	}
	if _, ok := src.Lookup("unmapped_input"); ok {
		t.Error("inputs outside the mapping table have no override")
	}
}
