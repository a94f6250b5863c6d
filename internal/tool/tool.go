package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Descriptor is the public calling contract of a tool
type Descriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// Tool is a named unit of work exposed to remote callers
type Tool interface {
	Descriptor() Descriptor
	Signature() Signature
}

type (
	MapFunc      func(ctx context.Context, args map[string]any) (any, error)
	DocumentFunc func(ctx context.Context, doc json.RawMessage) (any, error)
	StringFunc   func(ctx context.Context, payload string) (any, error)
	NoneFunc     func(ctx context.Context) (any, error)
)

// TypedFunc is a callable taking one concrete parameter type. Build one with Typed.
type TypedFunc interface {
	decode(doc []byte) (any, error)
	call(ctx context.Context, v any) (any, error)
}

// Signature lists the call shapes a tool accepts. At least one must be set.
type Signature struct {
	Map      MapFunc
	Document DocumentFunc
	String   StringFunc
	None     NoneFunc
	Typed    TypedFunc
}

// Capability is a set of call shapes
type Capability uint8

const (
	AcceptsMap Capability = 1 << iota
	AcceptsDocument
	AcceptsString
	AcceptsNone
	AcceptsTyped
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{AcceptsMap, "map"},
	{AcceptsDocument, "document"},
	{AcceptsString, "string"},
	{AcceptsNone, "none"},
	{AcceptsTyped, "typed"},
}

// Has reports whether every shape in o is in c
func (c Capability) Has(o Capability) bool {
	return o != 0 && c&o == o
}

func (c Capability) String() string {
	var names []string
	for _, n := range capabilityNames {
		if c.Has(n.c) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none-declared"
	}
	return strings.Join(names, "|")
}

// Capabilities derives the capability tags from the declared callables
func (s Signature) Capabilities() Capability {
	var c Capability
	if s.Map != nil {
		c |= AcceptsMap
	}
	if s.Document != nil {
		c |= AcceptsDocument
	}
	if s.String != nil {
		c |= AcceptsString
	}
	if s.None != nil {
		c |= AcceptsNone
	}
	if s.Typed != nil {
		c |= AcceptsTyped
	}
	return c
}

type typed[T any] struct {
	fn func(ctx context.Context, in T) (any, error)
}

// Typed wraps fn so the arguments are decoded into T before the call.
// Unknown fields are ignored and missing ones keep their zero value.
func Typed[T any](fn func(ctx context.Context, in T) (any, error)) TypedFunc {
	return typed[T]{fn: fn}
}

func (t typed[T]) decode(doc []byte) (any, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func (t typed[T]) call(ctx context.Context, v any) (any, error) {
	in, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("unexpected parameter type %T", v)
	}
	return t.fn(ctx, in)
}

// Func is the plain Tool implementation
type Func struct {
	desc Descriptor
	sig  Signature
}

var _ Tool = (*Func)(nil)

// New creates a tool from its parts
func New(name, description string, inputSchema json.RawMessage, sig Signature) *Func {
	return &Func{
		desc: Descriptor{Name: name, Description: description, InputSchema: inputSchema},
		sig:  sig,
	}
}

// FromMCP creates a tool whose contract is declared with the mcp-go builder
func FromMCP(t mcp.Tool, sig Signature) (*Func, error) {
	schema := t.RawInputSchema
	if len(schema) == 0 {
		var err error
		schema, err = json.Marshal(t.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("marshal input schema of %s: %w", t.Name, err)
		}
	}
	return New(t.Name, t.Description, schema, sig), nil
}

func (f *Func) Descriptor() Descriptor { return f.desc }

func (f *Func) Signature() Signature { return f.sig }
