// Package config loads evolve settings from defaults, a YAML file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/Inventure71/EvolveProject/agent"
	"github.com/Inventure71/EvolveProject/client"
	"github.com/Inventure71/EvolveProject/ratelimit"
	"github.com/Inventure71/EvolveProject/retry"
	"github.com/Inventure71/EvolveProject/tool/builtin"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

// EnvPrefix marks environment variables read into the configuration.
// EVOLVE_AGENT_MAX_STEPS sets agent.max_steps.
const EnvPrefix = "EVOLVE_"

type Config struct {
	Provider ProviderConfig `koanf:"provider"`
	Retry    RetryConfig    `koanf:"retry"`
	Agent    AgentConfig    `koanf:"agent"`
	Tools    ToolsConfig    `koanf:"tools"`
	Log      LogConfig      `koanf:"log"`
	MCP      MCPConfig      `koanf:"mcp"`
}

type ProviderConfig struct {
	Name              string `koanf:"name"`
	Model             string `koanf:"model"`
	APIKey            string `koanf:"api_key"`
	BaseURL           string `koanf:"base_url"`
	RequestsPerMinute int    `koanf:"requests_per_minute"`
}

type RetryConfig struct {
	MaxRetries   int     `koanf:"max_retries"`
	InitialDelay string  `koanf:"initial_delay"`
	MaxDelay     string  `koanf:"max_delay"`
	Multiplier   float64 `koanf:"multiplier"`
}

type AgentConfig struct {
	MaxSteps          int    `koanf:"max_steps"`
	Timeout           string `koanf:"timeout"`
	HandlerTimeout    string `koanf:"handler_timeout"`
	Pacing            string `koanf:"pacing"`
	Marker            string `koanf:"marker"`
	TrailSize         int    `koanf:"trail_size"`
	SystemInstruction string `koanf:"system_instruction"`
	ReloadEachStep    bool   `koanf:"reload_each_step"`
}

type ToolsConfig struct {
	WorkDir     string `koanf:"workdir"`
	TerminalLog string `koanf:"terminal_log"`
	DebugDir    string `koanf:"debug_dir"`
	ManifestDir string `koanf:"manifest_dir"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

type MCPConfig struct {
	Servers []MCPServerConfig `koanf:"servers"`
}

// MCPServerConfig describes an MCP server launched over stdio whose tools
// join the registry.
type MCPServerConfig struct {
	Name    string   `koanf:"name"`
	Command string   `koanf:"command"`
	Args    []string `koanf:"args"`
	Env     []string `koanf:"env"`
}

// Default values
const (
	DefaultProviderName              = "google"
	DefaultProviderRequestsPerMinute = ratelimit.DefaultPerMinute

	DefaultRetryMaxRetries   = 5
	DefaultRetryInitialDelay = "5s"
	DefaultRetryMaxDelay     = "60s"
	DefaultRetryMultiplier   = 1.5

	DefaultAgentMaxSteps       = agent.DefaultMaxSteps
	DefaultAgentTimeout        = "0s"
	DefaultAgentHandlerTimeout = "30s"
	DefaultAgentPacing         = "500ms"
	DefaultAgentMarker         = agent.DefaultMarker
	DefaultAgentSystemPrompt   = agent.DefaultSystemInstruction
	DefaultAgentTrailSize      = agent.DefaultTrailSize

	DefaultToolsTerminalLog = builtin.DefaultTerminalLog
	DefaultToolsDebugDir    = builtin.DefaultDebugDir
	DefaultToolsManifestDir = "tools"

	DefaultLogLevel = "info"
)

// Load resolves the configuration. A .env file in the working directory is
// read first; it never overrides variables already set. cmd may be nil, in
// which case flags are not consulted.
func Load(cmd *cobra.Command) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")

	defaults := map[string]interface{}{
		"provider.name":                DefaultProviderName,
		"provider.requests_per_minute": DefaultProviderRequestsPerMinute,
		"retry.max_retries":            DefaultRetryMaxRetries,
		"retry.initial_delay":          DefaultRetryInitialDelay,
		"retry.max_delay":              DefaultRetryMaxDelay,
		"retry.multiplier":             DefaultRetryMultiplier,
		"agent.max_steps":              DefaultAgentMaxSteps,
		"agent.timeout":                DefaultAgentTimeout,
		"agent.handler_timeout":        DefaultAgentHandlerTimeout,
		"agent.pacing":                 DefaultAgentPacing,
		"agent.marker":                 DefaultAgentMarker,
		"agent.trail_size":             DefaultAgentTrailSize,
		"agent.system_instruction":     DefaultAgentSystemPrompt,
		"tools.terminal_log":           DefaultToolsTerminalLog,
		"tools.debug_dir":              DefaultToolsDebugDir,
		"tools.manifest_dir":           DefaultToolsManifestDir,
		"log.level":                    DefaultLogLevel,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Config file loading
	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(home, ".evolve", "config.yaml")
		if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
			slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
		}
	}

	// Environment variables. Section names are single words, so only the
	// first underscore separates section from key.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	// CLI flags
	if cmd != nil {
		if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	cfg.Provider.Name = strings.ToLower(strings.TrimSpace(cfg.Provider.Name))
	if cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = os.Getenv(apiKeyEnv(cfg.Provider.Name))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// apiKeyEnv names the conventional API key variable for a provider.
func apiKeyEnv(provider string) string {
	switch provider {
	case "google", "gemini":
		return "GEMINI_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if _, err := evolve.ParseProvider(c.Provider.Name); err != nil {
		return fmt.Errorf("provider.name: %w", err)
	}
	if c.Agent.MaxSteps <= 0 {
		return fmt.Errorf("agent.max_steps must be positive, got %d", c.Agent.MaxSteps)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", c.Retry.MaxRetries)
	}
	if c.Retry.Multiplier < 1 {
		return fmt.Errorf("retry.multiplier must be at least 1, got %g", c.Retry.Multiplier)
	}
	for _, pair := range []struct{ key, value, fallback string }{
		{"retry.initial_delay", c.Retry.InitialDelay, DefaultRetryInitialDelay},
		{"retry.max_delay", c.Retry.MaxDelay, DefaultRetryMaxDelay},
		{"agent.timeout", c.Agent.Timeout, DefaultAgentTimeout},
		{"agent.handler_timeout", c.Agent.HandlerTimeout, DefaultAgentHandlerTimeout},
		{"agent.pacing", c.Agent.Pacing, DefaultAgentPacing},
	} {
		if _, err := DurationOrDefault(pair.value, pair.fallback); err != nil {
			return fmt.Errorf("%s: %w", pair.key, err)
		}
	}
	for i, s := range c.MCP.Servers {
		if s.Name == "" || s.Command == "" {
			return fmt.Errorf("mcp.servers[%d]: name and command are required", i)
		}
	}
	return nil
}

// RetryPolicy converts the retry section into a retry.Config.
func (c *Config) RetryPolicy() retry.Config {
	initial, _ := DurationOrDefault(c.Retry.InitialDelay, DefaultRetryInitialDelay)
	maxDelay, _ := DurationOrDefault(c.Retry.MaxDelay, DefaultRetryMaxDelay)
	return retry.Config{
		MaxRetries:   c.Retry.MaxRetries,
		InitialDelay: initial,
		MaxDelay:     maxDelay,
		Multiplier:   c.Retry.Multiplier,
	}
}

// ClientConfig returns the provider client settings.
func (c *Config) ClientConfig() (client.Config, error) {
	provider, err := evolve.ParseProvider(c.Provider.Name)
	if err != nil {
		return client.Config{}, err
	}
	policy := c.RetryPolicy()
	return client.Config{
		Provider:          provider,
		APIKey:            c.Provider.APIKey,
		BaseURL:           c.Provider.BaseURL,
		Model:             c.Provider.Model,
		RequestsPerMinute: c.Provider.RequestsPerMinute,
		Retry:             &policy,
	}, nil
}

// AgentOptions returns the agent settings as run options.
func (c *Config) AgentOptions() []agent.Option {
	timeout, _ := DurationOrDefault(c.Agent.Timeout, DefaultAgentTimeout)
	handlerTimeout, _ := DurationOrDefault(c.Agent.HandlerTimeout, DefaultAgentHandlerTimeout)
	pacing, _ := DurationOrDefault(c.Agent.Pacing, DefaultAgentPacing)

	opts := []agent.Option{
		agent.WithMaxSteps(c.Agent.MaxSteps),
		agent.WithHandlerTimeout(handlerTimeout),
		agent.WithPacing(pacing),
		agent.WithMarker(c.Agent.Marker),
		agent.WithTrailSize(c.Agent.TrailSize),
		agent.WithReloadEachStep(c.Agent.ReloadEachStep),
	}
	if timeout > 0 {
		opts = append(opts, agent.WithTimeout(timeout))
	}
	if c.Agent.SystemInstruction != "" {
		opts = append(opts, agent.WithSystemInstruction(c.Agent.SystemInstruction))
	}
	return opts
}

// BuiltinConfig returns the settings for the builtin tools.
func (c *Config) BuiltinConfig() builtin.Config {
	return builtin.Config{
		WorkDir:     c.Tools.WorkDir,
		TerminalLog: c.Tools.TerminalLog,
		DebugDir:    c.Tools.DebugDir,
	}
}

// ManifestPath resolves the manifest directory against the tools workdir.
func (c *Config) ManifestPath() string {
	dir := c.Tools.ManifestDir
	if dir == "" || filepath.IsAbs(dir) || c.Tools.WorkDir == "" {
		return dir
	}
	return filepath.Join(c.Tools.WorkDir, dir)
}
