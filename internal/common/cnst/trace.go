package cnst

// Tracer names used across the service
const (
	// TraceCore is the tracer name for the JSON-RPC dispatcher
	TraceCore = "toolserver/core"
	// TraceTool is the tracer name for the invocation engine
	TraceTool = "toolserver/tool"
	// TraceUpstream is the tracer name for tools calling remote HTTP APIs
	TraceUpstream = "toolserver/upstream"
)

// Common span names and prefixes
const (
	// SpanMCPMethodPrefix prefixes spans for handling JSON-RPC methods
	SpanMCPMethodPrefix = "mcp.method."
	// SpanToolInvoke represents a single tool invocation
	SpanToolInvoke = "tool.invoke"
	// SpanUpstreamFetch represents a request to a remote catalog API
	SpanUpstreamFetch = "upstream.fetch"
)

// Common attribute keys
const (
	AttrMCPTool         = "mcp.tool"
	AttrMCPMethod       = "mcp.method"
	AttrClientAddr      = "client.remote_addr"
	AttrClientUserAgent = "client.user_agent"
	AttrErrorReason     = "error.reason"
	AttrMCPErrorCode    = "mcp.error_code"
	AttrToolCapability  = "tool.capability"
	AttrUpstreamURL     = "upstream.url"
)
