package truthpack

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonschema"
)

// Category documents are validated on load so a malformed truthpack fails
// at startup instead of producing silent not-found evidence.

const metaProps = `
		"version": {"type": "string"},
		"generated_at": {"type": "string", "format": "date-time"},
		"summary": {"type": "object"}`

var categorySchemas = map[string]string{
	"routes": `{
	"type": "object",
	"required": ["version", "generated_at", "routes"],
	"properties": {` + metaProps + `,
		"routes": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["path", "method"],
				"properties": {
					"path": {"type": "string", "minLength": 1},
					"method": {"type": "string"},
					"auth": {"type": "string"},
					"roles": {"type": "array", "items": {"type": "string"}},
					"file": {"type": "string"},
					"line": {"type": "integer"}
				}
			}
		}
	}
}`,
	"env": `{
	"type": "object",
	"required": ["version", "generated_at", "vars"],
	"properties": {` + metaProps + `,
		"vars": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"required": {"type": "boolean"},
					"sensitive": {"type": "boolean"},
					"file": {"type": "string"}
				}
			}
		}
	}
}`,
	"auth": `{
	"type": "object",
	"required": ["version", "generated_at"],
	"properties": {` + metaProps + `,
		"providers": {"type": "array", "items": {"type": "string"}},
		"roles": {"type": "array", "items": {"type": "string"}},
		"protected": {"type": "array", "items": {"type": "string"}}
	}
}`,
	"contracts": `{
	"type": "object",
	"required": ["version", "generated_at", "contracts"],
	"properties": {` + metaProps + `,
		"contracts": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["path", "method"],
				"properties": {
					"path": {"type": "string", "minLength": 1},
					"method": {"type": "string"},
					"request": {"type": "object"},
					"response": {"type": "object"}
				}
			}
		}
	}
}`,
}

var compiledSchemas map[string]*jsonschema.Schema

func init() {
	compiledSchemas = make(map[string]*jsonschema.Schema, len(categorySchemas))
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	for category, raw := range categorySchemas {
		schema, err := compiler.Compile([]byte(raw))
		if err != nil {
			panic(fmt.Sprintf("truthpack: compile %s schema: %v", category, err))
		}
		compiledSchemas[category] = schema
	}
}

// validateCategory checks a raw category document against its schema
func validateCategory(category string, data []byte) error {
	schema, ok := compiledSchemas[category]
	if !ok {
		return fmt.Errorf("unknown truthpack category: %s", category)
	}
	var instance interface{}
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("%s document failed schema validation: %v", category, err)
	}
	result := schema.Validate(instance)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("%s document failed schema validation: %v", category, result.Errors)
}
