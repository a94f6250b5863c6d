package tool

import (
	"fmt"
	"slices"
	"strings"

	"github.com/amoylab/toolserver/internal/common/cnst"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// Handle is a registered tool: its descriptor, callables and derived tags
type Handle struct {
	desc Descriptor
	sig  Signature
	caps Capability
}

func (h *Handle) Descriptor() Descriptor { return h.desc }

func (h *Handle) Signature() Signature { return h.sig }

func (h *Handle) Capabilities() Capability { return h.caps }

// Builder collects tools at startup. It is not safe for concurrent use.
type Builder struct {
	logger  *zap.Logger
	handles []*Handle
	byKey   map[string]*Handle
	built   bool
}

// NewBuilder creates an empty registry builder
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{
		logger: logger.Named("tool.registry"),
		byKey:  make(map[string]*Handle),
	}
}

// foldName maps a name to its case-insensitive lookup key. A Caser keeps
// state, so each call gets its own.
func foldName(name string) string {
	return cases.Fold().String(name)
}

// Register validates t and adds it to the registry being built
func (b *Builder) Register(t Tool) error {
	if b.built {
		return cnst.ErrRegistrySealed
	}

	desc := t.Descriptor()
	if desc.Name == "" || strings.TrimSpace(desc.Name) != desc.Name {
		return fmt.Errorf("%w: %q", cnst.ErrInvalidToolName, desc.Name)
	}

	sig := t.Signature()
	caps := sig.Capabilities()
	if caps == 0 {
		return fmt.Errorf("%w: %s", cnst.ErrNoCallable, desc.Name)
	}

	schema, err := normalizeSchema(desc.InputSchema)
	if err != nil {
		return fmt.Errorf("tool %s: %w", desc.Name, err)
	}
	desc.InputSchema = schema

	key := foldName(desc.Name)
	if prev, ok := b.byKey[key]; ok {
		if prev.desc.Name == desc.Name {
			return fmt.Errorf("%w: %s", cnst.ErrDuplicateToolName, desc.Name)
		}
		return fmt.Errorf("%w: %s collides with %s ignoring case", cnst.ErrDuplicateToolName, desc.Name, prev.desc.Name)
	}

	h := &Handle{desc: desc, sig: sig, caps: caps}
	b.handles = append(b.handles, h)
	b.byKey[key] = h

	b.logger.Debug("registered tool",
		zap.String("name", desc.Name),
		zap.Stringer("capabilities", caps))
	return nil
}

// RegisterAll registers tools in order and stops at the first failure
func (b *Builder) RegisterAll(tools ...Tool) error {
	for _, t := range tools {
		if err := b.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// Build seals the builder and returns the immutable registry
func (b *Builder) Build() *Registry {
	b.built = true
	b.logger.Info("tool registry built", zap.Int("tools", len(b.handles)))
	return &Registry{
		handles: slices.Clone(b.handles),
		byKey:   b.byKey,
	}
}

// Registry is the read-only set of tools. It needs no locking.
type Registry struct {
	handles []*Handle
	byKey   map[string]*Handle
}

// List returns the descriptors in registration order
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.handles))
	for i, h := range r.handles {
		d := h.desc
		d.InputSchema = slices.Clone(d.InputSchema)
		out[i] = d
	}
	return out
}

// Find looks a tool up by name, ignoring case
func (r *Registry) Find(name string) (*Handle, bool) {
	h, ok := r.byKey[foldName(name)]
	return h, ok
}

func (r *Registry) Len() int {
	return len(r.handles)
}
