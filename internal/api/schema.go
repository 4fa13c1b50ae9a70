package api

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/masterysheet/internal/mastery"
)

func masteryEnum() []string {
	out := make([]string, 0, 5)
	for _, l := range mastery.Levels() {
		out = append(out, string(l))
	}
	return out
}

func updateSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mastery": map[string]any{"type": "string", "enum": masteryEnum()},
		},
		"required": []string{"mastery"},
	}
}

func createSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"character_id": map[string]any{"type": "integer", "minimum": 1},
			"name":         map[string]any{"type": "string", "minLength": 1, "maxLength": 127},
			"mastery":      map[string]any{"type": "string", "enum": masteryEnum()},
		},
		"required": []string{"character_id", "name"},
	}
}

// compileSchema compiles a schema definition held as Go values.
func compileSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	// The compiler wants a parsed JSON value, not Go maps with typed slices.
	raw, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", name, err)
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add resource %s: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return compiled, nil
}

// validateBody parses raw JSON and checks it against schema.
func validateBody(schema *jsonschema.Schema, raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
