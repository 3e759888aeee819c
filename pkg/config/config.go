// Package config provides centralized configuration for the story MCP server.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete configuration for the server. Defaults reproduce
// the fixed constants the server shipped with; environment variables override
// them when set.
type Config struct {
	// Upstream story-generation API
	API struct {
		BaseURL string
		Timeout time.Duration
	}

	// MCP streamable HTTP listener
	Server struct {
		Host string
		Port int
		Path string
	}

	// Diagnostic log sink
	Log struct {
		File string
	}
}

var (
	once   sync.Once
	config *Config
)

// Load initializes and loads the configuration once per process.
func Load() *Config {
	once.Do(func() {
		config = load()
	})
	return config
}

func load() *Config {
	v := viper.New()

	v.SetDefault("api.base_url", "http://103.42.50.33:8000")
	v.SetDefault("api.timeout", "600s")
	v.SetDefault("server.host", "127.0.0.1")
	// 8001 keeps clear of the co-located service on 8000.
	v.SetDefault("server.port", 8001)
	v.SetDefault("server.path", "/mcp")
	v.SetDefault("log.file", "story_mcp_server.log")

	v.AutomaticEnv()
	v.BindEnv("api.base_url", "STORY_API_BASE_URL")
	v.BindEnv("api.timeout", "STORY_API_TIMEOUT")
	v.BindEnv("server.host", "STORY_MCP_HOST")
	v.BindEnv("server.port", "STORY_MCP_PORT")
	v.BindEnv("server.path", "STORY_MCP_PATH")
	v.BindEnv("log.file", "STORY_MCP_LOG_FILE")

	cfg := &Config{}
	cfg.API.BaseURL = v.GetString("api.base_url")
	cfg.API.Timeout = v.GetDuration("api.timeout")
	cfg.Server.Host = v.GetString("server.host")
	cfg.Server.Port = v.GetInt("server.port")
	cfg.Server.Path = v.GetString("server.path")
	cfg.Log.File = v.GetString("log.file")

	return cfg
}

// Addr returns the listen address for the MCP HTTP transport.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks that the configuration can actually be served.
func (c *Config) Validate() error {
	var errors []string

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("api base URL %q is not an absolute URL", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errors = append(errors, "api timeout must be positive")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, fmt.Sprintf("server port %d out of range", c.Server.Port))
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		errors = append(errors, fmt.Sprintf("server path %q must start with /", c.Server.Path))
	}
	if c.Log.File == "" {
		errors = append(errors, "log file must be set")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}
	return nil
}
