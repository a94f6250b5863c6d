package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/amoylab/toolserver/internal/common/cnst"
	apptrace "github.com/amoylab/toolserver/pkg/trace"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Engine resolves a tool by name, adapts the arguments and runs it once
type Engine struct {
	logger   *zap.Logger
	registry *Registry
}

func NewEngine(logger *zap.Logger, registry *Registry) *Engine {
	return &Engine{
		logger:   logger.Named("tool.engine"),
		registry: registry,
	}
}

// Registry returns the registry the engine dispatches to
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Invoke calls the named tool exactly once. It returns cnst.ErrInvalidParams
// for a blank name, an error wrapping cnst.ErrToolNotFound for an unknown one
// and *ExecutionError for everything that goes wrong after the tool is found,
// including panics. No deadline is imposed beyond ctx.
func (e *Engine) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	if strings.TrimSpace(name) == "" {
		return nil, cnst.ErrInvalidParams
	}
	h, ok := e.registry.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", cnst.ErrToolNotFound, name)
	}
	return e.invoke(ctx, h, args)
}

func (e *Engine) invoke(ctx context.Context, h *Handle, args map[string]any) (result any, err error) {
	name := h.desc.Name
	scope := apptrace.Tracer(cnst.TraceTool).
		Start(ctx, cnst.SpanToolInvoke).
		WithAttrs(attribute.String(cnst.AttrMCPTool, name))
	defer scope.End()

	in, err := Adapt(h.sig, args)
	if err != nil {
		e.logger.Warn("arguments fit no callable",
			zap.String("tool", name),
			zap.Stringer("capabilities", h.caps),
			zap.Error(err))
		err = &ExecutionError{Tool: name, Err: fmt.Errorf("%w for tool %s", err, name)}
		scope.Fail(err)
		return nil, err
	}
	scope.WithAttrs(attribute.String(cnst.AttrToolCapability, in.Kind().String()))

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tool panicked",
				zap.String("tool", name),
				zap.Any("panic", r),
				zap.Stack("stack"))
			result = nil
			err = &ExecutionError{Tool: name, Err: fmt.Errorf("tool panicked: %v", r)}
		}
		if err != nil {
			scope.Fail(err)
		}
	}()

	e.logger.Debug("invoking tool",
		zap.String("tool", name),
		zap.Stringer("as", in.Kind()))

	result, err = h.sig.call(scope.Ctx, in)
	if err != nil {
		return nil, &ExecutionError{Tool: name, Err: err}
	}
	return result, nil
}
