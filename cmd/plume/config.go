package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the configuration of the local plume node.
type Config struct {
	// LedgerPath is the directory holding the embedded ledger store.
	LedgerPath string `json:"ledgerPath"`
	// VaultPath is the encrypted key vault file.
	VaultPath string `json:"vaultPath"`
	// LogPath should be empty for standard error logging OR a path to a
	// writable file.
	LogPath string `json:"logPath"`
}

func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".plume")
	return &Config{
		LedgerPath: filepath.Join(base, "ledger"),
		VaultPath:  filepath.Join(base, "vault.dat"),
	}
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open configuration file: %v", err)
	}
	defer file.Close()
	config := DefaultConfig()
	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("could not parse configuration file: %v", err)
	}
	if err := CheckConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}
	return config, nil
}

func CheckConfig(c *Config) error {
	if c.LedgerPath == "" {
		return fmt.Errorf("ledgerPath must be specified")
	}
	if c.VaultPath == "" {
		return fmt.Errorf("vaultPath must be specified")
	}
	return nil
}
