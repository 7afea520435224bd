package gemini

import (
	"google.golang.org/genai"

	"github.com/taskboard/assistant/core/protocol"
)

// declarations converts the tool catalog into Gemini function declarations.
func declarations(catalog []protocol.Tool) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, len(catalog))
	for i, tool := range catalog {
		decls[i] = &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  toSchema(tool.Parameters),
		}
	}
	return decls
}

// toSchema converts a JSON-schema parameter map into the genai Schema type.
// Only the subset the tool catalog uses is mapped: object/string/integer/
// number/boolean/array types, property maps, enums, required lists, and
// descriptions.
func toSchema(params map[string]any) *genai.Schema {
	if params == nil {
		return nil
	}
	schema := &genai.Schema{}

	if t, ok := params["type"].(string); ok {
		schema.Type = toType(t)
	}
	if desc, ok := params["description"].(string); ok {
		schema.Description = desc
	}
	if props, ok := params["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if prop, ok := raw.(map[string]any); ok {
				schema.Properties[name] = toSchema(prop)
			}
		}
	}
	if items, ok := params["items"].(map[string]any); ok {
		schema.Items = toSchema(items)
	}
	schema.Enum = toStrings(params["enum"])
	schema.Required = toStrings(params["required"])

	return schema
}

func toType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeUnspecified
	}
}

// toStrings accepts both []string and the []any that JSON decoding produces.
func toStrings(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
