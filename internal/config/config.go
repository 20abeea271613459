// Package config loads server configuration from a YAML file plus the
// process environment. A local .env file is loaded first (best effort) so
// provider credentials can live next to the project during development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up in the workspace directory.
const DefaultFile = "workbench.yaml"

// SMTP holds default SMTP transport settings. Tool parameters override
// these per call.
type SMTP struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Config is the full server configuration.
type Config struct {
	// Workspace is the root directory tool paths are resolved against.
	Workspace string `yaml:"workspace"`

	// AllowedCommands is the binary allow-list for the run_command tool.
	AllowedCommands []string `yaml:"allowed_commands"`

	// ArtisanCommands is the subcommand allow-list for artisan_command.
	ArtisanCommands []string `yaml:"artisan_commands"`

	// VersionKey is the env-file key managed by the version_bump tool.
	VersionKey string `yaml:"version_key"`

	SMTP SMTP `yaml:"smtp"`

	// SendGridAPIKey is read from SENDGRID_API_KEY when empty.
	SendGridAPIKey string `yaml:"sendgrid_api_key"`

	// AWSRegion is the default region for the SES tool.
	AWSRegion string `yaml:"aws_region"`
}

// Default returns the zero-config defaults rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Workspace:       dir,
		AllowedCommands: []string{"flutter", "dart", "composer", "php", "npm", "node", "git"},
		ArtisanCommands: []string{
			"migrate", "migrate:fresh", "migrate:rollback", "db:seed",
			"route:list", "cache:clear", "config:clear", "config:cache",
			"key:generate", "storage:link", "queue:work", "optimize",
		},
		VersionKey: "VERSION",
		SMTP:       SMTP{Port: 587},
		AWSRegion:  "us-east-1",
	}
}

// Load reads configuration for the workspace at dir. A missing config file
// is not an error; environment variables override file values.
func Load(dir string) (*Config, error) {
	// .env is optional and may simply not exist.
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	cfg := Default(dir)

	path := filepath.Join(dir, DefaultFile)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to env overrides
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.Workspace == "" {
		cfg.Workspace = dir
	}
	abs, err := filepath.Abs(cfg.Workspace)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace: %w", err)
	}
	cfg.Workspace = abs

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("WORKBENCH_WORKSPACE"); v != "" {
		c.Workspace = v
	}
	if v := os.Getenv("WORKBENCH_ALLOWED_COMMANDS"); v != "" {
		c.AllowedCommands = splitList(v)
	}
	if v := os.Getenv("WORKBENCH_VERSION_KEY"); v != "" {
		c.VersionKey = v
	}
	if v := os.Getenv("SENDGRID_API_KEY"); v != "" && c.SendGridAPIKey == "" {
		c.SendGridAPIKey = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.AWSRegion = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" && c.SMTP.Host == "" {
		c.SMTP.Host = v
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// CommandAllowed reports whether bin is on the run_command allow-list.
func (c *Config) CommandAllowed(bin string) bool {
	for _, allowed := range c.AllowedCommands {
		if bin == allowed {
			return true
		}
	}
	return false
}

// ArtisanAllowed reports whether sub is an allow-listed artisan subcommand.
func (c *Config) ArtisanAllowed(sub string) bool {
	for _, allowed := range c.ArtisanCommands {
		if sub == allowed {
			return true
		}
	}
	return false
}
