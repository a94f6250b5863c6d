package mcp

const (
	JSPNRPCVersion = "2.0"
)

// Methods
const (
	ToolsList = "tools/list"
	ToolsCall = "tools/call"
)

// Standard JSON-RPC error codes
const (
	ErrorCodeParseError     = -32700
	ErrorCodeInvalidRequest = -32600
	ErrorCodeMethodNotFound = -32601
	ErrorCodeInvalidParams  = -32602
	ErrorCodeInternalError  = -32603
)

// Server defined error codes
const (
	// ErrorCodeToolExecution is returned when a tool was found but failed to run
	ErrorCodeToolExecution = -32000
)

const (
	ContentTypeText = "text"
)

// Wire messages
const (
	MsgInvalidRequest      = "Invalid Request"
	MsgMethodNotFound      = "Method not found: %s"
	MsgToolNotFound        = "Tool not found: %s"
	MsgNameRequired        = "Invalid params: name is required"
	MsgInvalidParams       = "Invalid params: %s"
	MsgToolExecution       = "Tool execution failed: %s"
	MsgToolExecutionSimple = "Tool execution failed"
	MsgInternalError       = "Internal error"
)
