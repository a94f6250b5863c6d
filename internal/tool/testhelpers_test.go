package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func echoMap(_ context.Context, args map[string]any) (any, error) {
	return args, nil
}

func noArgs(_ context.Context) (any, error) {
	return "no-args", nil
}

func newTestRegistry(t *testing.T, tools ...Tool) *Registry {
	t.Helper()
	b := NewBuilder(zap.NewNop())
	require.NoError(t, b.RegisterAll(tools...))
	return b.Build()
}

func mapTool(name string) *Func {
	return New(name, "echoes its arguments", json.RawMessage(`{"type":"object","properties":{}}`), Signature{Map: echoMap})
}
