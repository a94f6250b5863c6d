package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/amoylab/toolserver/internal/common/config"
	"github.com/amoylab/toolserver/pkg/mcp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolsList_RegistrationOrder(t *testing.T) {
	s := newTestServer(t)
	env := callRPC(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	require.Nil(t, env.Error)

	var res mcp.ListToolsResult
	require.NoError(t, json.Unmarshal(env.Result, &res))

	var names []string
	for _, tl := range res.Tools {
		assert.NotEmpty(t, tl.Name)
		assert.JSONEq(t, `{"type":"object","properties":{}}`, string(tl.InputSchema))
		names = append(names, tl.Name)
	}
	assert.Equal(t, []string{"getAllTodos", "echo", "createTodo", "explode", "nothing"}, names)
}

func TestToolsCall_NameRequired(t *testing.T) {
	s := newTestServer(t)
	for _, params := range []string{
		``,
		`,"params":{}`,
		`,"params":null`,
		`,"params":{"name":""}`,
		`,"params":{"name":"   ","arguments":{}}`,
	} {
		env := callRPC(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call"`+params+`}`)
		require.NotNil(t, env.Error, params)
		assert.Equal(t, mcp.ErrorCodeInvalidParams, env.Error.Code, params)
		assert.Equal(t, "Invalid params: name is required", env.Error.Message)
		assert.Nil(t, env.Result)
	}
}

func TestToolsCall_MalformedParams(t *testing.T) {
	s := newTestServer(t)
	for _, params := range []string{
		`"getAllTodos"`,
		`{"name":7}`,
		`{"name":"echo","arguments":[1,2]}`,
		`{"name":"echo","arguments":"x"}`,
	} {
		env := callRPC(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":`+params+`}`)
		require.NotNil(t, env.Error, params)
		assert.Equal(t, mcp.ErrorCodeInvalidParams, env.Error.Code, params)
	}
}

func TestToolsCall_ToolNotFound(t *testing.T) {
	s := newTestServer(t)
	env := callRPC(t, s, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"getSomething"}}`)
	require.NotNil(t, env.Error)
	assert.Equal(t, mcp.ErrorCodeMethodNotFound, env.Error.Code)
	assert.Equal(t, "Tool not found: getSomething", env.Error.Message)
	assert.Nil(t, env.Result)
}

func TestToolsCall_CaseInsensitiveName(t *testing.T) {
	s := newTestServer(t)
	exact := decodeCallResult(t, callRPC(t, s, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"getAllTodos"}}`))
	upper := decodeCallResult(t, callRPC(t, s, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"GETALLTODOS"}}`))
	assert.Equal(t, exact, upper)
	require.Len(t, upper.Content, 1)
	assert.Equal(t, "text", upper.Content[0].Type)
	assert.JSONEq(t, `["write tests"]`, upper.Content[0].Text)
}

func TestToolsCall_ZeroArgTool(t *testing.T) {
	s := newTestServer(t)
	for _, params := range []string{
		`{"name":"getAllTodos"}`,
		`{"name":"getAllTodos","arguments":{}}`,
		`{"name":"getAllTodos","arguments":null}`,
	} {
		env := callRPC(t, s, `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":`+params+`}`)
		res := decodeCallResult(t, env)
		require.Len(t, res.Content, 1, params)
	}

	env := callRPC(t, s, `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"getAllTodos","arguments":{"x":1}}}`)
	require.NotNil(t, env.Error)
	assert.Equal(t, mcp.ErrorCodeToolExecution, env.Error.Code)
	assert.Contains(t, env.Error.Message, "no matching method signature")
}

func TestToolsCall_TypedArguments(t *testing.T) {
	s := newTestServer(t)
	res := decodeCallResult(t, callRPC(t, s, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"createTodo","arguments":{"title":"ship it"}}}`))
	require.Len(t, res.Content, 1)
	assert.Equal(t, "created ship it", res.Content[0].Text)
}

func TestToolsCall_NumbersKeepLiteralForm(t *testing.T) {
	s := newTestServer(t)
	res := decodeCallResult(t, callRPC(t, s, `{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"echo","arguments":{"big":12345678901234567890}}}`))
	require.Len(t, res.Content, 1)
	assert.Contains(t, res.Content[0].Text, "12345678901234567890")
}

func TestToolsCall_ExecutionError(t *testing.T) {
	s := newTestServer(t)
	w := postRPC(t, s, `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"explode"}}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	_, hasResult := raw["result"]
	assert.False(t, hasResult)

	var env rpcEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, mcp.ErrorCodeToolExecution, env.Error.Code)
	assert.Equal(t, "Tool execution failed: database unreachable", env.Error.Message)
}

func TestToolsCall_SanitizedExecutionError(t *testing.T) {
	s := newTestServer(t, WithRPCConfig(config.RPCConfig{SanitizeErrors: true}))
	env := callRPC(t, s, `{"jsonrpc":"2.0","id":10,"method":"tools/call","params":{"name":"explode"}}`)
	require.NotNil(t, env.Error)
	assert.Equal(t, mcp.ErrorCodeToolExecution, env.Error.Code)
	assert.Equal(t, "Tool execution failed", env.Error.Message)
}

func TestToolsCall_NullResult(t *testing.T) {
	s := newTestServer(t)
	res := decodeCallResult(t, callRPC(t, s, `{"jsonrpc":"2.0","id":11,"method":"tools/call","params":{"name":"nothing"}}`))
	require.Len(t, res.Content, 1)
	assert.Equal(t, "text", res.Content[0].Type)
	assert.Equal(t, "", res.Content[0].Text)
}

func TestToolsCall_Concurrent(t *testing.T) {
	s := newTestServer(t)
	const n = 32

	var wg sync.WaitGroup
	texts := make([]string, n)
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"method":"tools/call","params":{"name":"echo","arguments":{"n":%d}}}`, i, i)
			w := postRPC(t, s, body)

			var env rpcEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil || env.Error != nil {
				return
			}
			var res callResult
			if err := json.Unmarshal(env.Result, &res); err != nil || len(res.Content) != 1 {
				return
			}
			ids[i] = string(env.ID)
			texts[i] = res.Content[0].Text
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		assert.Equal(t, fmt.Sprint(i), ids[i])
		assert.JSONEq(t, fmt.Sprintf(`{"n":%d}`, i), texts[i])
	}
}

func TestIDRoundTrip(t *testing.T) {
	s := newTestServer(t)
	cases := map[string]string{
		"null":          `"id":null,`,
		"string":        `"id":"req-<1>&é",`,
		"integer":       `"id":42,`,
		"float literal": `"id":1.50,`,
		"exponent":      `"id":1e3,`,
	}
	for name, field := range cases {
		t.Run(name, func(t *testing.T) {
			env := callRPC(t, s, `{"jsonrpc":"2.0",`+field+`"method":"tools/list"}`)
			want := field[len(`"id":`) : len(field)-1]
			assert.Equal(t, want, string(env.ID))
		})
	}

	t.Run("absent", func(t *testing.T) {
		env := callRPC(t, s, `{"jsonrpc":"2.0","method":"tools/list"}`)
		assert.Equal(t, "null", string(env.ID))
	})

	t.Run("error envelope", func(t *testing.T) {
		env := callRPC(t, s, `{"jsonrpc":"2.0","id":"abc","method":"resources/list"}`)
		require.NotNil(t, env.Error)
		assert.Equal(t, `"abc"`, string(env.ID))
	})
}

func TestUnknownMethod(t *testing.T) {
	s := newTestServer(t)
	for _, method := range []string{"initialize", "ping", "resources/list"} {
		env := callRPC(t, s, `{"jsonrpc":"2.0","id":12,"method":"`+method+`"}`)
		require.NotNil(t, env.Error)
		assert.Equal(t, mcp.ErrorCodeMethodNotFound, env.Error.Code)
		assert.Equal(t, "Method not found: "+method, env.Error.Message)
	}
}

func TestInvalidRequest(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		name   string
		body   string
		wantID string
	}{
		{"empty body", ``, "null"},
		{"not json", `hello`, "null"},
		{"truncated", `{"jsonrpc":"2.0","id":1,`, "null"},
		{"batch", `[{"jsonrpc":"2.0","id":1,"method":"tools/list"}]`, "null"},
		{"missing method", `{"jsonrpc":"2.0","id":7}`, "7"},
		{"empty method", `{"jsonrpc":"2.0","id":"a","method":""}`, `"a"`},
		{"method not a string", `{"jsonrpc":"2.0","id":"x","method":5}`, `"x"`},
		{"object id", `{"jsonrpc":"2.0","id":{"a":1},"method":"tools/list"}`, "null"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := callRPC(t, s, tc.body)
			require.NotNil(t, env.Error)
			assert.Equal(t, mcp.ErrorCodeInvalidRequest, env.Error.Code)
			assert.Equal(t, "Invalid Request", env.Error.Message)
			assert.Equal(t, tc.wantID, string(env.ID))
		})
	}
}

func TestAlternateEndpoint(t *testing.T) {
	s := newTestServer(t)
	req := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	w := postRPC(t, s, req)

	w2 := doRequest(t, s, http.MethodPost, "/mcp?sessionId=abc", req)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.JSONEq(t, w.Body.String(), w2.Body.String())
}

func TestParseRequest(t *testing.T) {
	req, err := parseRequest([]byte(`  {"jsonrpc":"2.0","id":"q","method":"tools/call","params":{"name":"x"}}  `))
	require.NoError(t, err)
	assert.Equal(t, "tools/call", req.Method)
	assert.Equal(t, `"q"`, string(req.Id))
	assert.JSONEq(t, `{"name":"x"}`, string(req.Params))

	_, err = parseRequest([]byte(`{"id":1}`))
	assert.ErrorIs(t, err, errInvalidEnvelope)
}

func TestDecodeCallParams(t *testing.T) {
	params, args, err := decodeCallParams(json.RawMessage(`{"name":"a","arguments":{"n":1.0,"s":"x"}}`))
	require.NoError(t, err)
	assert.Equal(t, "a", params.Name)
	assert.Equal(t, json.Number("1.0"), args["n"])
	assert.Equal(t, "x", args["s"])

	_, args, err = decodeCallParams(nil)
	require.NoError(t, err)
	assert.NotNil(t, args)
	assert.Empty(t, args)

	_, _, err = decodeCallParams(json.RawMessage(`{"name":"a","arguments":true}`))
	assert.Error(t, err)
}
