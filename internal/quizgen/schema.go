package quizgen

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schemas the model output must conform to. Any violation is treated as a
// service failure, never passed through to the caller.
var (
	batchSchemaDef = map[string]any{
		"type":     "array",
		"minItems": 1,
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{"type": "integer"},
				"tipo": map[string]any{
					"type": "string",
					"enum": []any{"opcion_multiple", "verdadero_falso", "respuesta_abierta"},
				},
				"pregunta": map[string]any{"type": "string", "minLength": 1},
				"opciones": map[string]any{
					"type": []any{"object", "null"},
					"additionalProperties": map[string]any{"type": "string"},
				},
				"respuesta_correcta": map[string]any{"type": "string", "minLength": 1},
				"explicacion":        map[string]any{"type": "string"},
			},
			"required": []any{"id", "tipo", "pregunta", "respuesta_correcta", "explicacion"},
		},
	}

	gradeSchemaDef = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correcta":    map[string]any{"type": "boolean"},
			"puntaje":     map[string]any{"type": "number"},
			"explicacion": map[string]any{"type": "string"},
		},
		"required": []any{"correcta", "puntaje", "explicacion"},
	}
)

var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateJSON parses raw JSON and validates it against a named schema
// definition. The compiled schema is cached by name.
func validateJSON(name string, def map[string]any, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := compiledSchema(name, def)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compiledSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value (any), not raw
	// bytes. Marshal then unmarshal to get a clean any representation.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
