package resolver

import (
	"strings"

	"github.com/cmbmwifi/cambium-nms-templates/pkg/requirements"
)

// Coerce converts a raw textual value into a typed one according to the
// input kind. The switch is exhaustive over the closed InputType set.
func Coerce(t requirements.InputType, raw string) Value {
	switch t {
	case requirements.TypeBoolean:
		// Only the exact literals "true" and "yes" are truthy; everything
		// else, including "True" and "1", is false.
		b := raw == "true" || raw == "yes"
		text := "false"
		if b {
			text = "true"
		}
		return Value{Type: t, Text: text, Bool: b}

	case requirements.TypeList:
		items := splitList(raw)
		return Value{Type: t, Text: strings.Join(items, ","), List: items}

	case requirements.TypeText, requirements.TypeURL, requirements.TypeSecret:
		return Value{Type: t, Text: raw}
	}
	// Unreachable for documents that passed schema validation.
	return Value{Type: t, Text: raw}
}

// splitList parses a comma-separated sequence into trimmed items. An empty
// or all-whitespace input yields an empty (non-nil) slice.
func splitList(raw string) []string {
	items := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		items = append(items, part)
	}
	return items
}
