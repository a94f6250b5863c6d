package cnst

const (
	AppName     = "toolserver"
	CommandName = "toolserver"
)

// Config files looked up through helper.GetCfgPath
const (
	DefaultConfigFile = "toolserver.yaml"
)

// Tool execution statuses reported to metrics
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
