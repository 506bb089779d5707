package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plumenet/plume/crypto"
	"github.com/plumenet/plume/protocol/instructions"
	"github.com/plumenet/plume/protocol/program"
	"github.com/plumenet/plume/token"
)

// submit signs the envelope with the vault key and executes it against the
// local ledger.
func submit(build func(actor crypto.Token) (*instructions.Envelope, error)) error {
	vault, err := openVault()
	if err != nil {
		return err
	}
	defer vault.Close()
	processor, closeStore, err := openProcessor()
	if err != nil {
		return err
	}
	defer closeStore()

	envelope, err := build(vault.SecretKey.PublicKey())
	if err != nil {
		return err
	}
	envelope.Sign(vault.SecretKey)
	return processor.Process(envelope.Serialize())
}

var initMintCmd = &cobra.Command{
	Use:   "init-mint",
	Short: "one-time setup of the reward mint",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := submit(func(actor crypto.Token) (*instructions.Envelope, error) {
			return program.NewInitializeMint(actor), nil
		})
		if err != nil {
			return err
		}
		fmt.Printf("reward mint ready at %v\n", program.MintAddress())
		return nil
	},
}

var introCmd = &cobra.Command{
	Use:   "intro <name> <message>",
	Short: "publish your introduction",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := submit(func(actor crypto.Token) (*instructions.Envelope, error) {
			return program.NewCreateIntro(actor, args[0], args[1]), nil
		})
		if err != nil {
			return err
		}
		fmt.Println("introduction published")
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <message>",
	Short: "edit your introduction's message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := submit(func(actor crypto.Token) (*instructions.Envelope, error) {
			return program.NewUpdateIntro(actor, "", args[0]), nil
		})
		if err != nil {
			return err
		}
		fmt.Println("introduction updated")
		return nil
	},
}

var replyCmd = &cobra.Command{
	Use:   "reply <writer-token> <name> <message>",
	Short: "reply to another writer's introduction",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		writer := crypto.TokenFromString(args[0])
		if writer.Equal(crypto.ZeroToken) {
			return fmt.Errorf("invalid writer token %v", args[0])
		}
		processor, closeStore, err := openProcessor()
		if err != nil {
			return err
		}
		sequence, err := processor.ReplyCount(writer)
		closeStore()
		if err != nil {
			return err
		}
		err = submit(func(actor crypto.Token) (*instructions.Envelope, error) {
			return program.NewReply(actor, writer, sequence, args[1], args[2]), nil
		})
		if err != nil {
			return err
		}
		fmt.Printf("reply %d published\n", sequence)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <writer-token>",
	Short: "show a writer's introduction and its replies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		writer := crypto.TokenFromString(args[0])
		if writer.Equal(crypto.ZeroToken) {
			return fmt.Errorf("invalid writer token %v", args[0])
		}
		processor, closeStore, err := openProcessor()
		if err != nil {
			return err
		}
		defer closeStore()
		intro, err := processor.Intro(writer)
		if err != nil {
			return err
		}
		fmt.Printf("%v: %v\n", intro.Name, intro.Message)
		replies, err := processor.Replies(writer)
		if err != nil {
			return err
		}
		for n, reply := range replies {
			fmt.Printf("  #%d %v: %v\n", n, reply.Name, reply.Message)
		}
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance [token]",
	Short: "show a reward balance, yours by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var owner crypto.Token
		if len(args) == 1 {
			owner = crypto.TokenFromString(args[0])
			if owner.Equal(crypto.ZeroToken) {
				return fmt.Errorf("invalid token %v", args[0])
			}
		} else {
			vault, err := openVault()
			if err != nil {
				return err
			}
			owner = vault.SecretKey.PublicKey()
			vault.Close()
		}
		processor, closeStore, err := openProcessor()
		if err != nil {
			return err
		}
		defer closeStore()
		balance, err := processor.RewardBalance(owner)
		if err != nil {
			return err
		}
		fmt.Printf("%d.%09d\n", balance/token.Unit, balance%token.Unit)
		return nil
	},
}
