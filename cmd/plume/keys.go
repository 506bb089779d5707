package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/plumenet/plume/crypto"
	"github.com/plumenet/plume/util"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "manage the encrypted key vault",
}

var keysCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "create a new vault with a fresh key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(config.VaultPath); err == nil {
			return fmt.Errorf("vault already exists at %v", config.VaultPath)
		}
		if err := os.MkdirAll(filepath.Dir(config.VaultPath), 0o700); err != nil {
			return err
		}
		password, err := readPassword("Choose a vault password:")
		if err != nil {
			return err
		}
		vault, err := util.NewSecureVault(password, config.VaultPath)
		if err != nil {
			return err
		}
		defer vault.Close()
		fmt.Printf("vault created, your token is %v\n", vault.SecretKey.PublicKey())
		return nil
	},
}

var keysShowCmd = &cobra.Command{
	Use:   "show",
	Short: "print the vault's public token",
	RunE: func(cmd *cobra.Command, args []string) error {
		vault, err := openVault()
		if err != nil {
			return err
		}
		defer vault.Close()
		fmt.Println(vault.SecretKey.PublicKey())
		return nil
	},
}

var keysImportCmd = &cobra.Command{
	Use:   "import <pem-file>",
	Short: "import a PEM-encoded ed25519 private key as a vault entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		secret, err := crypto.ParsePEMPrivateKey(data)
		if err != nil {
			return err
		}
		vault, err := openVault()
		if err != nil {
			return err
		}
		defer vault.Close()
		if err := vault.NewEntry(secret[:]); err != nil {
			return err
		}
		fmt.Printf("imported key for token %v\n", secret.PublicKey())
		return nil
	},
}

var keysInspectCmd = &cobra.Command{
	Use:   "inspect <pem-file>",
	Short: "print the token of a PEM-encoded ed25519 key, private or public",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if secret, err := crypto.ParsePEMPrivateKey(data); err == nil {
			fmt.Println(secret.PublicKey())
			return nil
		}
		token, err := crypto.ParsePEMPublicKey(data)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysCreateCmd, keysShowCmd, keysImportCmd, keysInspectCmd)
}
