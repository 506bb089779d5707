package program

import (
	"github.com/plumenet/plume/crypto"
	"github.com/plumenet/plume/ledger"
	"github.com/plumenet/plume/protocol/instructions"
	"github.com/plumenet/plume/token"
)

// Envelope builders. They assemble the positional account list each
// operation expects; a caller that wants to exercise the gate with wrong
// references can still mutate the envelope before signing.

func NewCreateIntro(actor crypto.Token, name, message string) *instructions.Envelope {
	intro := IntroAddress(actor)
	mint := MintAddress()
	return &instructions.Envelope{
		Kind:  instructions.ICreateIntro,
		Actor: actor,
		Accounts: []crypto.Token{
			actor,
			intro,
			CounterAddress(intro),
			mint,
			MintAuthority(),
			token.AssociatedTokenAddress(actor, mint),
			ledger.SystemProgramID,
			token.ProgramID,
		},
		Name:    name,
		Message: message,
	}
}

func NewUpdateIntro(actor crypto.Token, name, message string) *instructions.Envelope {
	return &instructions.Envelope{
		Kind:     instructions.IUpdateIntro,
		Actor:    actor,
		Accounts: []crypto.Token{actor, IntroAddress(actor)},
		Name:     name,
		Message:  message,
	}
}

// NewReply targets the intro of introOwner. The sequence must be the
// counter value observed before this reply; the gate rejects the envelope
// otherwise.
func NewReply(actor, introOwner crypto.Token, sequence uint64, name, message string) *instructions.Envelope {
	intro := IntroAddress(introOwner)
	mint := MintAddress()
	return &instructions.Envelope{
		Kind:  instructions.IReply,
		Actor: actor,
		Accounts: []crypto.Token{
			actor,
			intro,
			CounterAddress(intro),
			ReplyAddress(intro, sequence),
			mint,
			MintAuthority(),
			token.AssociatedTokenAddress(actor, mint),
			ledger.SystemProgramID,
			token.ProgramID,
		},
		Name:    name,
		Message: message,
	}
}

func NewInitializeMint(actor crypto.Token) *instructions.Envelope {
	return &instructions.Envelope{
		Kind:  instructions.IInitializeMint,
		Actor: actor,
		Accounts: []crypto.Token{
			actor,
			MintAddress(),
			MintAuthority(),
			ledger.SystemProgramID,
			token.ProgramID,
		},
	}
}
