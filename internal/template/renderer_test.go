package template

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTemplateNameDeterministic(t *testing.T) {
	n1 := generateTemplateName("hello {{ . }}")
	n2 := generateTemplateName("hello {{ . }}")
	n3 := generateTemplateName("other")
	assert.Equal(t, n1, n2)
	assert.NotEqual(t, n1, n3)
}

func TestRenderTemplateWithFuncs(t *testing.T) {
	ctx := NewContext()
	ctx.Env = func(key string) string {
		if key == "X_ENV_TEST" {
			return "works"
		}
		return ""
	}
	ctx.Args["A"] = 2
	ctx.Args["B"] = 3
	out, err := RenderTemplate(`sum={{ add .Args.A .Args.B }} env={{ env "X_ENV_TEST" }}`, ctx)
	require.NoError(t, err)
	assert.Equal(t, "sum=5 env=works", out)
}

func TestRenderUsesEachContextsEnv(t *testing.T) {
	r := NewRenderer()
	tmpl := `{{ env "K" }}`

	a := NewContext()
	a.Env = func(string) string { return "a" }
	b := NewContext()
	b.Env = func(string) string { return "b" }

	out, err := r.Render(tmpl, a)
	require.NoError(t, err)
	assert.Equal(t, "a", out)
	out, err = r.Render(tmpl, b)
	require.NoError(t, err)
	assert.Equal(t, "b", out)
}

func TestRenderParseError(t *testing.T) {
	_, err := RenderTemplate("{{ .Args.x ", NewContext())
	assert.Error(t, err)
}

func TestRenderResponseData(t *testing.T) {
	ctx := NewContext()
	ctx.Response.Data = map[string]any{
		"name": "Apple MacBook Pro 16",
		"data": map[string]any{"price": 2049.99, "color": "Silver"},
	}
	out, err := RenderTemplate(`{{ .Response.Data.name }}: {{ safeGetOr "data.color" .Response.Data "n/a" }}`, ctx)
	require.NoError(t, err)
	assert.Equal(t, "Apple MacBook Pro 16: Silver", out)
}

func TestSprigFunctionsAvailable(t *testing.T) {
	ctx := NewContext()
	ctx.Args["name"] = "world"

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{
			name:     "upper function",
			template: `{{ .Args.name | upper }}`,
			expected: "WORLD",
		},
		{
			name:     "trim function",
			template: `{{ "  hello  " | trim }}`,
			expected: "hello",
		},
		{
			name:     "default function",
			template: `{{ .Args.missing | default "fallback" }}`,
			expected: "fallback",
		},
		{
			name:     "mustFromJson",
			template: `{{ $v := mustFromJson "[[1,\"a\"]]" }}{{ index (index $v 0) 1 }}`,
			expected: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := RenderTemplate(tt.template, ctx)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRendererConcurrentUse(t *testing.T) {
	r := NewRenderer()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx := NewContext()
			ctx.Args["n"] = i
			out, err := r.Render(`{{ .Args.n }}`, ctx)
			assert.NoError(t, err)
			assert.Equal(t, fmt.Sprint(i), out)
		}(i)
	}
	wg.Wait()
	assert.Len(t, r.templates, 1)
}
