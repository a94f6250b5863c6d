package core

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amoylab/toolserver/internal/common/config"
	"github.com/amoylab/toolserver/pkg/mcp"
	"github.com/amoylab/toolserver/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	w := doRequest(t, s, http.MethodGet, "/health_check", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListToolsREST(t *testing.T) {
	s := newTestServer(t)
	w := doRequest(t, s, http.MethodGet, "/api/tools", "")
	require.Equal(t, http.StatusOK, w.Code)

	var tools []mcp.ToolSchema
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tools))
	require.Len(t, tools, 5)
	assert.Equal(t, "getAllTodos", tools[0].Name)
	assert.Equal(t, "lists todos", tools[0].Description)
}

func TestNoRoute(t *testing.T) {
	s := newTestServer(t)
	w := doRequest(t, s, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsRoute(t *testing.T) {
	m := metrics.New(config.MetricsConfig{Namespace: "toolserver_test"})
	s := newTestServer(t, WithMetrics(m, "/metrics"))

	callRPC(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"ECHO","arguments":{}}}`)
	callRPC(t, s, `{"jsonrpc":"2.0","id":2,"method":"bogus"}`)

	w := doRequest(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `toolserver_test_rpc_requests_total{method="tools/call"} 1`)
	assert.Contains(t, body, `toolserver_test_rpc_requests_total{method="unknown"} 1`)
	assert.Contains(t, body, `toolserver_test_rpc_errors_total{code="-32601"} 1`)
	assert.Contains(t, body, `toolserver_test_tool_execution_total{status="success",tool_name="echo"} 1`)
}

func TestServerShutdownWithoutStart(t *testing.T) {
	s := newTestServer(t)
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestTracingOption(t *testing.T) {
	s := newTestServer(t, WithTracing())
	env := callRPC(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	assert.Nil(t, env.Error)
}
