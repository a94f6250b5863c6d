package template

import "os"

// Context represents the template context
type (
	Context struct {
		Args     map[string]any      `json:"args"`
		Config   map[string]string   `json:"config"`
		Response ResponseWrapper     `json:"response"`
		Env      func(string) string `json:"-"` // Function to get environment variables
	}
	ResponseWrapper struct {
		// Data is the decoded upstream body
		Data any `json:"data"`
		// Body is the raw upstream body
		Body string `json:"body"`
	}
)

// NewContext creates a new template context
func NewContext() *Context {
	return &Context{
		Args:   make(map[string]any),
		Config: make(map[string]string),
		Env:    os.Getenv,
	}
}
