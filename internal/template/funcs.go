package template

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// fromJSON decodes a JSON document, keeping numbers as json.Number.
// Malformed input yields nil.
func fromJSON(s string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// safeGet resolves a gjson path such as "data.color", "features.0" or
// "features.#" against data. Strings and byte slices are queried as JSON
// documents, anything else is encoded first so json tags name the keys.
// Missing paths and JSON null give nil, numbers come back as json.Number.
//
//	{{ safeGet "args.a-b" . }}
//	{{ safeGet "features.#" .Response.Data }}
func safeGet(path string, data any) any {
	var doc []byte
	switch v := data.(type) {
	case string:
		doc = []byte(v)
	case []byte:
		doc = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		doc = b
	}

	r := gjson.GetBytes(doc, path)
	switch {
	case !r.Exists(), r.Type == gjson.Null:
		return nil
	case r.Type == gjson.Number:
		return json.Number(r.Raw)
	default:
		return r.Value()
	}
}

// safeGetOr is safeGet with a fallback for missing values
func safeGetOr(path string, data any, def any) any {
	if v := safeGet(path, data); v != nil {
		return v
	}
	return def
}
