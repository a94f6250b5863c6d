package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amoylab/toolserver/internal/tool"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type callResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type todoInput struct {
	Title string `json:"title"`
}

func testTools() []tool.Tool {
	schema := json.RawMessage(`{"type":"object","properties":{}}`)
	return []tool.Tool{
		tool.New("getAllTodos", "lists todos", schema, tool.Signature{
			None: func(context.Context) (any, error) {
				return []string{"write tests"}, nil
			},
		}),
		tool.New("echo", "echoes arguments", schema, tool.Signature{
			Map: func(_ context.Context, args map[string]any) (any, error) {
				return args, nil
			},
		}),
		tool.New("createTodo", "creates a todo", schema, tool.Signature{
			Typed: tool.Typed(func(_ context.Context, in todoInput) (any, error) {
				return "created " + in.Title, nil
			}),
		}),
		tool.New("explode", "always fails", schema, tool.Signature{
			Map: func(context.Context, map[string]any) (any, error) {
				return nil, errors.New("database unreachable")
			},
		}),
		tool.New("nothing", "returns null", schema, tool.Signature{
			None: func(context.Context) (any, error) {
				return nil, nil
			},
		}),
	}
}

func newTestServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()
	return newTestServerWithLogger(t, zap.NewNop(), opts...)
}

func newTestServerWithLogger(t *testing.T, logger *zap.Logger, opts ...ServerOption) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := tool.NewBuilder(zap.NewNop())
	require.NoError(t, b.RegisterAll(testTools()...))
	engine := tool.NewEngine(zap.NewNop(), b.Build())
	return NewServer(logger, 0, engine, opts...)
}

func postRPC(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp/message", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func callRPC(t *testing.T, s *Server, body string) rpcEnvelope {
	t.Helper()
	w := postRPC(t, s, body)
	require.Equal(t, http.StatusOK, w.Code)

	var env rpcEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, "2.0", env.JSONRPC)
	return env
}

func decodeCallResult(t *testing.T, env rpcEnvelope) callResult {
	t.Helper()
	require.Nil(t, env.Error)
	var res callResult
	require.NoError(t, json.Unmarshal(env.Result, &res))
	return res
}
