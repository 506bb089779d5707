package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/plumenet/plume/ledger"
	"github.com/plumenet/plume/protocol/program"
	"github.com/plumenet/plume/util"
	"golang.org/x/term"
)

var configPath string

var config *Config

var rootCmd = &cobra.Command{
	Use:   "plume",
	Short: "plume operates a local intro ledger",
	Long: `plume manages an encrypted key vault and submits signed operations
against an embedded plume ledger: publish your introduction, edit its
message, reply to other writers, and collect reward tokens.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		config, err = LoadConfig(configPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to JSON configuration file")
	rootCmd.AddCommand(keysCmd, initMintCmd, introCmd, updateCmd, replyCmd, showCmd, balanceCmd)
}

func newLogger() *slog.Logger {
	if config.LogPath != "" {
		file, err := os.OpenFile(config.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			return slog.New(slog.NewTextHandler(file, nil))
		}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func openProcessor() (*program.Processor, func(), error) {
	log := newLogger()
	store, err := ledger.Open(ledger.Config{Path: config.LedgerPath, SyncWrites: true, Logger: log})
	if err != nil {
		return nil, nil, err
	}
	return program.NewProcessor(store, log), func() { store.Close() }, nil
}

func readPassword(phrase string) ([]byte, error) {
	fmt.Println(phrase)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("could not read password: %v", err)
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("empty password")
	}
	return password, nil
}

func openVault() (*util.SecureVault, error) {
	if _, err := os.Stat(config.VaultPath); err != nil {
		return nil, fmt.Errorf("no vault at %v, run 'plume keys create' first", config.VaultPath)
	}
	password, err := readPassword("Vault password:")
	if err != nil {
		return nil, err
	}
	return util.OpenVaultFromPassword(password, config.VaultPath)
}
