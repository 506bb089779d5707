package program

import (
	"github.com/plumenet/plume/crypto"
	"github.com/plumenet/plume/ledger"
	"github.com/plumenet/plume/protocol/instructions"
	"github.com/plumenet/plume/token"
)

// The validation gate. Each check is re-executed independently inside every
// handler, never cached across operations: each operation is a fresh,
// isolated execution context.

// checkSignature requires a valid signature from the claimed actor.
func checkSignature(envelope *instructions.Envelope) error {
	if !envelope.Verify() {
		return ErrMissingSignature
	}
	return nil
}

// checkDerived compares a caller-supplied record slot reference against its
// re-derived address, byte for byte.
func checkDerived(supplied, derived crypto.Token) error {
	if !supplied.Equal(derived) {
		return ErrInvalidPDA
	}
	return nil
}

// checkSingleton compares a caller-supplied singleton or collaborator
// reference against its globally fixed address.
func checkSingleton(supplied, wellKnown crypto.Token) error {
	if !supplied.Equal(wellKnown) {
		return ErrIncorrectAccount
	}
	return nil
}

// checkRewardAccounts validates the reward-issuance references shared by the
// create and reply handlers: the mint and mint-authority singletons, the
// actor's associated token account, and the two collaborator programs.
func checkRewardAccounts(actor, mint, authority, destination, system, tokenProgram crypto.Token) error {
	if err := checkSingleton(mint, MintAddress()); err != nil {
		return err
	}
	if err := checkSingleton(authority, MintAuthority()); err != nil {
		return err
	}
	if err := checkSingleton(destination, token.AssociatedTokenAddress(actor, mint)); err != nil {
		return err
	}
	if err := checkSingleton(system, ledger.SystemProgramID); err != nil {
		return err
	}
	return checkSingleton(tokenProgram, token.ProgramID)
}

// checkOwned confirms a slot about to be trusted or mutated belongs to this
// program and not to an unrelated one.
func checkOwned(account *ledger.Account) error {
	if !account.Owner.Equal(ID) {
		return ErrIllegalOwner
	}
	return nil
}

// checkAccountCount rejects operations whose positional reference list does
// not have the operation's fixed shape.
func checkAccountCount(envelope *instructions.Envelope, want int) error {
	if len(envelope.Accounts) != want {
		return ErrIncorrectAccount
	}
	return nil
}
