package config

import (
	"fmt"
	"strings"
)

// ValidationError collects every problem found in a configuration
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid configuration")
	for _, p := range e.Problems {
		sb.WriteString("\n--> ")
		sb.WriteString(p)
	}
	return sb.String()
}

// Validate checks the values SetDefaults cannot repair
func (c *ToolServerConfig) Validate() error {
	var problems []string

	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d out of range", c.Port))
	}
	if c.RPC.CallTimeout < 0 {
		problems = append(problems, "rpc.call_timeout must not be negative")
	}
	switch c.Logger.Format {
	case "", "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("logger.format %q is not one of json, console", c.Logger.Format))
	}
	switch c.Storage.Database.Type {
	case "sqlite", "postgres", "mysql":
	default:
		problems = append(problems, fmt.Sprintf("storage.database.type %q is not one of sqlite, postgres, mysql", c.Storage.Database.Type))
	}
	switch c.Cache.Type {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			problems = append(problems, "cache.redis.addr is required when cache.type is redis")
		}
	default:
		problems = append(problems, fmt.Sprintf("cache.type %q is not one of memory, redis", c.Cache.Type))
	}
	if c.Tools.News.Enabled && (c.Tools.News.ClientID == "" || c.Tools.News.ClientSecret == "") {
		problems = append(problems, "tools.news requires client_id and client_secret")
	}
	if c.Tools.Image.Enabled && c.Tools.Image.AccessKey == "" {
		problems = append(problems, "tools.image requires access_key")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
