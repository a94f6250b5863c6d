package config

import (
	"time"

	"github.com/amoylab/toolserver/internal/common/cnst"
)

const (
	DefaultPort        = 5235
	DefaultMetricsPath = "/metrics"
	DefaultCacheTTL    = 5 * time.Minute
	DefaultHTTPTimeout = 10 * time.Second
)

// SetDefaults fills the zero values left by the config file
func (c *ToolServerConfig) SetDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = cnst.AppName
	}
	if len(c.Metrics.Buckets) == 0 {
		c.Metrics.Buckets = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = cnst.AppName
	}

	if c.Storage.Database.Type == "" {
		c.Storage.Database.Type = "sqlite"
	}
	if c.Storage.Database.Type == "sqlite" && c.Storage.Database.DBName == "" {
		c.Storage.Database.DBName = "./data/toolserver.db"
	}

	if c.Cache.Type == "" {
		c.Cache.Type = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = cnst.AppName + ":cache:"
	}

	setHTTPToolDefaults(&c.Tools.Product.HTTPToolConfig, "http://localhost:8081")
	setHTTPToolDefaults(&c.Tools.News.HTTPToolConfig, "https://openapi.naver.com")
	setHTTPToolDefaults(&c.Tools.Image.HTTPToolConfig, "https://api.unsplash.com")
	if c.Tools.News.Display == 0 {
		c.Tools.News.Display = 5
	}
}

func setHTTPToolDefaults(c *HTTPToolConfig, baseURL string) {
	if c.BaseURL == "" {
		c.BaseURL = baseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultHTTPTimeout
	}
}
