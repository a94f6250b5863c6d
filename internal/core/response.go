package core

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/amoylab/toolserver/internal/common/cnst"
	"github.com/amoylab/toolserver/pkg/mcp"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const contentTypeJSON = "application/json; charset=utf-8"

// sendProtocolError sends a JSON-RPC error envelope. Envelopes always travel
// with HTTP 200.
func (s *Server) sendProtocolError(c *gin.Context, id json.RawMessage, code int, message string) {
	if s.metrics != nil {
		s.metrics.RPCError(code)
	}
	span := oteltrace.SpanFromContext(c.Request.Context())
	span.SetAttributes(
		attribute.Int(cnst.AttrMCPErrorCode, code),
		attribute.String(cnst.AttrErrorReason, message),
	)
	s.sendResponse(c, mcp.NewJSONRPCErrorSchema(id, code, message))
}

// sendSuccessResponse sends a successful response
func (s *Server) sendSuccessResponse(c *gin.Context, id json.RawMessage, result any) {
	s.sendResponse(c, mcp.NewJSONRPCResponse(id, result))
}

// sendResponse writes the envelope without HTML escaping so the echoed id
// keeps its exact bytes.
func (s *Server) sendResponse(c *gin.Context, response any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(response); err != nil {
		s.logger.Error("failed to marshal response", zap.Error(err))
		fallback, _ := json.Marshal(mcp.NewJSONRPCErrorSchema(nil, mcp.ErrorCodeInternalError, mcp.MsgInternalError))
		c.Data(http.StatusOK, contentTypeJSON, fallback)
		return
	}
	c.Data(http.StatusOK, contentTypeJSON, bytes.TrimRight(buf.Bytes(), "\n"))
}
