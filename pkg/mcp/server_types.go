package mcp

import (
	"bytes"
	"encoding/json"
)

type (
	// JSONRPCBaseResult carries the fields shared by every response envelope.
	// ID is kept raw so the caller's id is echoed back byte for byte.
	JSONRPCBaseResult struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
	}

	// JSONRPCRequest represents a JSON-RPC request that expects a response
	JSONRPCRequest struct {
		// JSONRPC version, must be "2.0"
		JSONRPC string `json:"jsonrpc"`
		// A uniquely identifying ID for a request in JSON-RPC.
		// String, number or null, never interpreted
		Id json.RawMessage `json:"id,omitempty"`
		// The method to be invoked
		Method string `json:"method"`
		// The parameters to be passed to the method
		Params json.RawMessage `json:"params,omitempty"`
	}

	// JSONRPCResponse represents a successful JSON-RPC response
	JSONRPCResponse struct {
		JSONRPCBaseResult
		Result any `json:"result"`
	}

	// JSONRPCErrorSchema represents a failed JSON-RPC response
	JSONRPCErrorSchema struct {
		JSONRPCBaseResult
		Error JSONRPCError `json:"error"`
	}

	JSONRPCError struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    any    `json:"data,omitempty"`
	}

	// ToolSchema represents a tool definition
	ToolSchema struct {
		// The name of the tool
		Name string `json:"name"`
		// A human-readable description of the tool
		Description string `json:"description"`
		// A JSON Schema object defining the expected parameters for the tool
		InputSchema json.RawMessage `json:"inputSchema"`
	}

	// ListToolsResult represents the result of a tools/list request
	ListToolsResult struct {
		Tools []ToolSchema `json:"tools"`
	}

	// CallToolParams represents parameters for a tools/call request
	CallToolParams struct {
		// The name of the tool to call
		Name string `json:"name"`
		// The arguments to pass to the tool, a JSON object when present
		Arguments json.RawMessage `json:"arguments,omitempty"`
	}

	// Content represents a content item in a tool call result
	Content interface {
		// GetType returns the type of the content
		GetType() string
	}

	// TextContent represents a text content item
	TextContent struct {
		// Must be "text"
		Type string `json:"type"`
		// The text content
		Text string `json:"text"`
	}

	// CallToolResult represents the result of a tools/call request
	CallToolResult struct {
		Content []Content `json:"content"`
		IsError bool      `json:"isError,omitempty"`
	}
)

func (t *TextContent) GetType() string {
	return t.Type
}

// NewTextContent creates a text content item
func NewTextContent(text string) *TextContent {
	return &TextContent{
		Type: ContentTypeText,
		Text: text,
	}
}

// NewCallToolResultText creates a tool result holding exactly one text block
func NewCallToolResultText(text string) *CallToolResult {
	return &CallToolResult{
		Content: []Content{NewTextContent(text)},
	}
}

var nullID = json.RawMessage("null")

// NormalizeID returns id unchanged, or the JSON null literal when the id was
// absent or blank.
func NormalizeID(id json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(id)) == 0 {
		return nullID
	}
	return id
}

// NewJSONRPCBaseResult creates the envelope header for the given request id
func NewJSONRPCBaseResult(id json.RawMessage) JSONRPCBaseResult {
	return JSONRPCBaseResult{
		JSONRPC: JSPNRPCVersion,
		ID:      NormalizeID(id),
	}
}

// NewJSONRPCResponse creates a success envelope
func NewJSONRPCResponse(id json.RawMessage, result any) JSONRPCResponse {
	return JSONRPCResponse{
		JSONRPCBaseResult: NewJSONRPCBaseResult(id),
		Result:            result,
	}
}

// NewJSONRPCErrorSchema creates an error envelope
func NewJSONRPCErrorSchema(id json.RawMessage, code int, message string) JSONRPCErrorSchema {
	return JSONRPCErrorSchema{
		JSONRPCBaseResult: NewJSONRPCBaseResult(id),
		Error: JSONRPCError{
			Code:    code,
			Message: message,
		},
	}
}
