package requirements

import "testing"

func TestParseCondition(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		variable string
		literal  string
		wantErr  bool
	}{
		{"simple", "add_hosts == true", "add_hosts", "true", false},
		{"no spaces", "add_hosts==true", "add_hosts", "true", false},
		{"quoted literal", `mode == "advanced"`, "mode", "advanced", false},
		{"empty", "", "", "", true},
		{"unknown operator", "add_hosts != true", "", "", true},
		{"missing literal", "add_hosts ==", "", "", true},
		{"missing variable", "== true", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := ParseCondition(tt.expr)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %+v", tt.expr, cond)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cond.Variable != tt.variable {
				t.Errorf("variable = %q, want %q", cond.Variable, tt.variable)
			}
			if cond.Literal != tt.literal {
				t.Errorf("literal = %q, want %q", cond.Literal, tt.literal)
			}
			if cond.Op != OpEqual {
				t.Errorf("op = %q, want %q", cond.Op, OpEqual)
			}
		})
	}
}

func TestConditionEvaluate(t *testing.T) {
	cond := &Condition{Variable: "add_hosts", Op: OpEqual, Literal: "true"}

	resolved := map[string]string{"add_hosts": "true"}
	lookup := func(name string) (string, bool) {
		v, ok := resolved[name]
		return v, ok
	}

	if !cond.Evaluate(lookup) {
		t.Error("condition should hold when value matches literal")
	}

	resolved["add_hosts"] = "false"
	if cond.Evaluate(lookup) {
		t.Error("condition should not hold when value differs")
	}
}

func TestConditionEvaluateUnresolvedVariable(t *testing.T) {
	// A variable that was skipped upstream (or never declared) behaves as
	// absent: the condition is false, never an error.
	cond := &Condition{Variable: "never_resolved", Op: OpEqual, Literal: "true"}

	lookup := func(string) (string, bool) { return "", false }
	if cond.Evaluate(lookup) {
		t.Error("condition on an unresolved variable must evaluate to false")
	}
}

func TestNilConditionAlwaysVisible(t *testing.T) {
	var cond *Condition
	if !cond.Evaluate(func(string) (string, bool) { return "", false }) {
		t.Error("absent condition means the input is always visible")
	}
}
