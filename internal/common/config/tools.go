package config

import "time"

type (
	// ToolsConfig switches the tool sets on and carries their upstream settings
	ToolsConfig struct {
		Todo    ToggleConfig      `yaml:"todo" toml:"todo"`
		Catalog ToggleConfig      `yaml:"catalog" toml:"catalog"`
		Product ProductToolConfig `yaml:"product" toml:"product"`
		News    NewsToolConfig    `yaml:"news" toml:"news"`
		Image   ImageToolConfig   `yaml:"image" toml:"image"`
	}

	ToggleConfig struct {
		Enabled bool `yaml:"enabled" toml:"enabled"`
	}

	// HTTPToolConfig is shared by tools backed by a remote HTTP API
	HTTPToolConfig struct {
		Enabled bool          `yaml:"enabled" toml:"enabled"`
		BaseURL string        `yaml:"base_url" toml:"base_url"`
		Timeout time.Duration `yaml:"timeout" toml:"timeout"`
	}

	ProductToolConfig struct {
		HTTPToolConfig `yaml:",inline" toml:",inline"`
		// Template renders a product, sprig functions are available
		Template string `yaml:"template" toml:"template"`
	}

	NewsToolConfig struct {
		HTTPToolConfig `yaml:",inline" toml:",inline"`
		ClientID       string `yaml:"client_id" toml:"client_id"`
		ClientSecret   string `yaml:"client_secret" toml:"client_secret"`
		Display        int    `yaml:"display" toml:"display"`
	}

	ImageToolConfig struct {
		HTTPToolConfig `yaml:",inline" toml:",inline"`
		AccessKey      string `yaml:"access_key" toml:"access_key"`
	}
)
