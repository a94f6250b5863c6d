package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/amoylab/toolserver/internal/common/cnst"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/ifuryst/lol"
)

// JSON Schema keywords that OpenAPI schema objects do not know about
var jsonSchemaKeywords = []string{"$schema", "$id", "$comment", "$defs", "definitions", "examples", "const"}

var emptySchema = json.RawMessage(`{}`)

// normalizeSchema checks that raw is a usable input schema and returns its
// canonical form: compact JSON with duplicate required entries removed. An
// absent schema becomes the empty object.
func normalizeSchema(raw json.RawMessage) (json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return emptySchema, nil
	}

	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil || doc == nil {
		return nil, fmt.Errorf("%w: not a JSON object", cnst.ErrInvalidInputSchema)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", cnst.ErrInvalidInputSchema)
	}

	if t, ok := doc["type"]; ok && t != "object" {
		return nil, fmt.Errorf("%w: root type must be object, got %v", cnst.ErrInvalidInputSchema, t)
	}

	if req, ok := doc["required"].([]any); ok {
		names := make([]string, 0, len(req))
		for _, r := range req {
			s, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("%w: required entries must be strings", cnst.ErrInvalidInputSchema)
			}
			names = append(names, s)
		}
		doc["required"] = lol.UniqSlice(names)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cnst.ErrInvalidInputSchema, err)
	}

	var schema openapi3.Schema
	if err := schema.UnmarshalJSON(out); err != nil {
		return nil, fmt.Errorf("%w: %v", cnst.ErrInvalidInputSchema, err)
	}
	if err := schema.Validate(context.Background(), openapi3.AllowExtraSiblingFields(jsonSchemaKeywords...)); err != nil {
		return nil, fmt.Errorf("%w: %v", cnst.ErrInvalidInputSchema, err)
	}
	return out, nil
}
