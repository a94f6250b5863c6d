package tool

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/amoylab/toolserver/pkg/mcp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type weather struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
}

type label string

func TestText(t *testing.T) {
	var nilPtr *weather
	var nilMap map[string]any
	var nilSlice []string

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"typed nil pointer", nilPtr, ""},
		{"typed nil map", nilMap, ""},
		{"typed nil slice", nilSlice, ""},
		{"string", "plain <text> & more", "plain <text> & more"},
		{"empty string", "", ""},
		{"named string", label("x"), "x"},
		{"json number", json.Number("1.50"), "1.50"},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"negative int64", int64(-7), "-7"},
		{"uint8", uint8(255), "255"},
		{"integral float", 3.0, "3"},
		{"float", 3.25, "3.25"},
		{"float32", float32(0.1), "0.1"},
		{"empty slice", []string{}, "[]"},
		{"map", map[string]any{"b": 1, "a": "x"}, "{\n  \"a\": \"x\",\n  \"b\": 1\n}"},
		{"struct", weather{City: "Seoul", Temperature: 21.5, Condition: "Sunny"},
			"{\n  \"city\": \"Seoul\",\n  \"temperature\": 21.5,\n  \"condition\": \"Sunny\"\n}"},
		{"pointer to struct", &weather{City: "Busan"},
			"{\n  \"city\": \"Busan\",\n  \"temperature\": 0,\n  \"condition\": \"\"\n}"},
		{"html is not escaped", []string{"<b>"}, "[\n  \"<b>\"\n]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestText_FallsBackWhenUnencodable(t *testing.T) {
	v := map[string]float64{"x": math.Inf(1)}
	assert.Equal(t, "map[x:+Inf]", Text(v))
}

func TestNormalize_SingleTextBlock(t *testing.T) {
	for _, v := range []any{nil, "a", 1, map[string]int{"a": 1}} {
		res := Normalize(v)
		require.Len(t, res.Content, 1)
		tc, ok := res.Content[0].(*mcp.TextContent)
		require.True(t, ok)
		assert.Equal(t, "text", tc.Type)
		assert.False(t, res.IsError)
	}

	b, err := json.Marshal(Normalize(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[{"type":"text","text":""}]}`, string(b))
}
