package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory when
// no --config flag is given.
const DefaultFile = "bookwright.yaml"

// Config is the top-level bookwright.yaml configuration.
type Config struct {
	// LedgerFile is the store opened automatically at startup.
	LedgerFile string `yaml:"ledger_file"`
	// Write enables the mutating tool set for the process lifetime.
	Write bool `yaml:"write"`
	// OwnerProcess is the desktop application probed before reclaiming
	// a stale lock.
	OwnerProcess string `yaml:"owner_process"`
	// AuditLog, when set, receives a CSV row per tool invocation.
	AuditLog string `yaml:"audit_log,omitempty"`
	// Model is the chat model used by the assist command.
	Model string `yaml:"model"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OwnerProcess: "gnucash",
		Model:        "gemini-2.5-pro",
	}
}

// Load reads a config file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Resolve builds the effective configuration: defaults, then the config
// file (the given path, or DefaultFile if present), then environment
// overrides LEDGER_FILE and LEDGER_WRITE.
func Resolve(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if file := os.Getenv("LEDGER_FILE"); file != "" {
		cfg.LedgerFile = file
	}
	switch os.Getenv("LEDGER_WRITE") {
	case "1", "true", "yes":
		cfg.Write = true
	}
	return cfg, nil
}
