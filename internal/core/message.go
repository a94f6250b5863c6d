package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/amoylab/toolserver/internal/common/cnst"
	"github.com/amoylab/toolserver/internal/tool"
	"github.com/amoylab/toolserver/pkg/mcp"
	apptrace "github.com/amoylab/toolserver/pkg/trace"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// maxBodyBytes bounds a single JSON-RPC request body
const maxBodyBytes = 4 << 20

var errInvalidEnvelope = errors.New("invalid request envelope")

// handleMessage handles a JSON-RPC request posted to the message endpoint.
// The sessionId query parameter some clients send is accepted and ignored.
func (s *Server) handleMessage(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		s.logger.Warn("failed to read request body",
			zap.String("remote_addr", c.Request.RemoteAddr),
			zap.Error(err))
		s.sendProtocolError(c, nil, mcp.ErrorCodeInvalidRequest, mcp.MsgInvalidRequest)
		return
	}

	req, err := parseRequest(body)
	if err != nil {
		s.logger.Debug("rejecting malformed request",
			zap.String("remote_addr", c.Request.RemoteAddr),
			zap.Error(err))
		s.sendProtocolError(c, req.Id, mcp.ErrorCodeInvalidRequest, mcp.MsgInvalidRequest)
		return
	}

	s.handleRPCRequest(c, req)
}

// parseRequest decodes a single JSON-RPC request. On failure the returned
// request still carries the id when one could be read.
func parseRequest(body []byte) (mcp.JSONRPCRequest, error) {
	var req mcp.JSONRPCRequest

	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' || !json.Valid(body) {
		return req, errInvalidEnvelope
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return mcp.JSONRPCRequest{Id: readID(body)}, fmt.Errorf("%w: %v", errInvalidEnvelope, err)
	}
	if !validID(req.Id) {
		return mcp.JSONRPCRequest{}, fmt.Errorf("%w: id must be a string, number or null", errInvalidEnvelope)
	}
	if req.Method == "" {
		return mcp.JSONRPCRequest{Id: req.Id}, fmt.Errorf("%w: method is required", errInvalidEnvelope)
	}
	return req, nil
}

// readID pulls the id out of an object that did not decode as a request
func readID(body []byte) json.RawMessage {
	id := gjson.GetBytes(body, "id")
	if !id.Exists() {
		return nil
	}
	raw := json.RawMessage(id.Raw)
	if !validID(raw) {
		return nil
	}
	return raw
}

func validID(id json.RawMessage) bool {
	if len(id) == 0 {
		return true
	}
	switch gjson.ParseBytes(id).Type {
	case gjson.String, gjson.Number, gjson.Null:
		return true
	}
	return false
}

func (s *Server) handleRPCRequest(c *gin.Context, req mcp.JSONRPCRequest) {
	method := req.Method
	if method != mcp.ToolsList && method != mcp.ToolsCall {
		method = "unknown"
	}

	scope := apptrace.Tracer(cnst.TraceCore).
		Start(c.Request.Context(), cnst.SpanMCPMethodPrefix+method, oteltrace.WithSpanKind(oteltrace.SpanKindInternal)).
		WithAttrs(
			attribute.String(cnst.AttrMCPMethod, req.Method),
			attribute.String(cnst.AttrClientAddr, c.Request.RemoteAddr),
			attribute.String(cnst.AttrClientUserAgent, c.Request.UserAgent()),
		)
	defer scope.End()

	ctx := scope.Ctx
	if s.rpc.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.rpc.CallTimeout)
		defer cancel()
	}
	c.Request = c.Request.WithContext(ctx)

	if s.metrics != nil {
		s.metrics.RPCReqStart(method)
		defer s.metrics.RPCReqDone(method, time.Now())
	}

	switch req.Method {
	case mcp.ToolsList:
		s.sendSuccessResponse(c, req.Id, s.listResult())
	case mcp.ToolsCall:
		s.handleToolsCall(c, req)
	default:
		s.sendProtocolError(c, req.Id, mcp.ErrorCodeMethodNotFound, fmt.Sprintf(mcp.MsgMethodNotFound, req.Method))
	}
}

func (s *Server) listResult() mcp.ListToolsResult {
	descs := s.engine.Registry().List()
	tools := make([]mcp.ToolSchema, len(descs))
	for i, d := range descs {
		tools[i] = mcp.ToolSchema{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: d.InputSchema,
		}
	}
	return mcp.ListToolsResult{Tools: tools}
}

func (s *Server) handleToolsCall(c *gin.Context, req mcp.JSONRPCRequest) {
	params, args, err := decodeCallParams(req.Params)
	if err != nil {
		s.sendProtocolError(c, req.Id, mcp.ErrorCodeInvalidParams, fmt.Sprintf(mcp.MsgInvalidParams, err.Error()))
		return
	}
	if strings.TrimSpace(params.Name) == "" {
		s.sendProtocolError(c, req.Id, mcp.ErrorCodeInvalidParams, mcp.MsgNameRequired)
		return
	}

	status := cnst.StatusSuccess
	if h, ok := s.engine.Registry().Find(params.Name); ok && s.metrics != nil {
		toolName := h.Descriptor().Name
		s.metrics.ToolExecStart(toolName)
		defer s.metrics.ToolExecDone(toolName, time.Now(), &status)
	}

	result, err := s.engine.Invoke(c.Request.Context(), params.Name, args)
	if err != nil {
		status = cnst.StatusError
		s.sendCallError(c, req.Id, params.Name, err)
		return
	}
	s.sendSuccessResponse(c, req.Id, tool.Normalize(result))
}

func (s *Server) sendCallError(c *gin.Context, id json.RawMessage, name string, err error) {
	var execErr *tool.ExecutionError
	switch {
	case errors.Is(err, cnst.ErrInvalidParams):
		s.sendProtocolError(c, id, mcp.ErrorCodeInvalidParams, mcp.MsgNameRequired)
	case errors.Is(err, cnst.ErrToolNotFound):
		s.sendProtocolError(c, id, mcp.ErrorCodeMethodNotFound, fmt.Sprintf(mcp.MsgToolNotFound, name))
	case errors.As(err, &execErr):
		s.logger.Warn("tool execution failed",
			zap.String("tool", execErr.Tool),
			zap.Error(execErr.Err))
		msg := fmt.Sprintf(mcp.MsgToolExecution, execErr.Error())
		if s.rpc.SanitizeErrors {
			msg = mcp.MsgToolExecutionSimple
		}
		s.sendProtocolError(c, id, mcp.ErrorCodeToolExecution, msg)
	default:
		s.logger.Error("unexpected invocation error", zap.String("tool", name), zap.Error(err))
		s.sendProtocolError(c, id, mcp.ErrorCodeInternalError, mcp.MsgInternalError)
	}
}

// decodeCallParams reads tools/call params. Absent params or arguments yield
// an empty argument map. Numbers keep their literal form as json.Number.
func decodeCallParams(raw json.RawMessage) (mcp.CallToolParams, map[string]any, error) {
	var params mcp.CallToolParams
	args := map[string]any{}
	if isAbsent(raw) {
		return params, args, nil
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return params, nil, errors.New("params must be an object with a string name")
	}
	if isAbsent(params.Arguments) {
		return params, args, nil
	}

	dec := json.NewDecoder(bytes.NewReader(params.Arguments))
	dec.UseNumber()
	var decoded map[string]any
	if err := dec.Decode(&decoded); err != nil {
		return params, nil, errors.New("arguments must be an object")
	}
	if decoded != nil {
		args = decoded
	}
	return params, args, nil
}

func isAbsent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
