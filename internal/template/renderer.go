package template

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Renderer parses templates once and renders them any number of times.
// It is safe for concurrent use.
type Renderer struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
}

// NewRenderer creates a new template renderer
func NewRenderer() *Renderer {
	return &Renderer{
		templates: make(map[string]*template.Template),
	}
}

var defaultRenderer = NewRenderer()

// RenderTemplate renders tmpl with the shared renderer
func RenderTemplate(tmpl string, ctx *Context) (string, error) {
	return defaultRenderer.Render(tmpl, ctx)
}

// generateTemplateName generates a unique name for a template based on its content
func generateTemplateName(tmpl string) string {
	hash := sha256.Sum256([]byte(tmpl))
	return fmt.Sprintf("tmpl_%s", hex.EncodeToString(hash[:8]))
}

func funcMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["add"] = func(a, b int) int { return a + b }
	fm["fromJSON"] = fromJSON
	fm["toJSON"] = toJSON
	fm["safeGet"] = safeGet
	fm["safeGetOr"] = safeGetOr
	return fm
}

// Render renders a template with the given context
func (r *Renderer) Render(tmpl string, ctx *Context) (string, error) {
	t, err := r.lookup(tmpl)
	if err != nil {
		return "", err
	}

	env := ctx.Env
	if env == nil {
		env = func(string) string { return "" }
	}
	t, err = t.Clone()
	if err != nil {
		return "", err
	}
	t.Funcs(template.FuncMap{"env": env})

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) lookup(tmpl string) (*template.Template, error) {
	name := generateTemplateName(tmpl)

	r.mu.RLock()
	t, ok := r.templates[name]
	r.mu.RUnlock()
	if ok {
		return t, nil
	}

	fm := funcMap()
	fm["env"] = func(string) string { return "" }
	t, err := template.New(name).Funcs(fm).Parse(tmpl)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.templates[name] = t
	r.mu.Unlock()
	return t, nil
}
