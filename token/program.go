package token

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/plumenet/plume/crypto"
	"github.com/plumenet/plume/ledger"
)

var (
	ErrMintNotInitialized = errors.New("mint is not initialized")
	ErrWrongAuthority     = errors.New("mint authority does not match")
	ErrWrongMint          = errors.New("token account belongs to another mint")
	ErrWrongDestination   = errors.New("destination is not the owner's associated token account")
	ErrIllegalOwner       = errors.New("account is not owned by the token program")
)

// Program executes token operations inside the caller's ledger transaction.
// It holds no state of its own: the mint and every balance live in ledger
// accounts owned by ProgramID.
type Program struct {
	log *slog.Logger
}

func NewProgram(log *slog.Logger) *Program {
	if log == nil {
		log = slog.Default()
	}
	return &Program{log: log}
}

// InitializeMint allocates the mint slot and writes its configuration. The
// freeze capability is deliberately absent. Calling it twice fails on the
// second allocation.
func (p *Program) InitializeMint(tx *ledger.Tx, mint, authority crypto.Token, decimals byte) error {
	account, err := tx.Create(mint, ProgramID, MintSize)
	if err != nil {
		return err
	}
	config := Mint{Initialized: true, Authority: authority, Supply: 0, Decimals: decimals}
	copy(account.Data, config.Serialize())
	if err := tx.Write(mint, account); err != nil {
		return err
	}
	p.log.Info("token mint initialized", "mint", mint, "authority", authority, "decimals", decimals)
	return nil
}

// MintTo issues amount base units of mint to the owner's associated token
// account, creating it on first use. The destination reference must equal
// the derived associated address and the authority must match the mint's.
func (p *Program) MintTo(tx *ledger.Tx, mint, destination, owner, authority crypto.Token, amount uint64) error {
	mintAccount, err := tx.Account(mint)
	if err != nil {
		return err
	}
	if !mintAccount.Owner.Equal(ProgramID) {
		return ErrIllegalOwner
	}
	config := ParseMint(mintAccount.Data)
	if config == nil || !config.Initialized {
		return ErrMintNotInitialized
	}
	if !config.Authority.Equal(authority) {
		return ErrWrongAuthority
	}
	if !destination.Equal(AssociatedTokenAddress(owner, mint)) {
		return ErrWrongDestination
	}

	holding, err := tx.Account(destination)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		holding, err = tx.Create(destination, ProgramID, AccountSize)
		if err != nil {
			return err
		}
		fresh := Account{Initialized: true, Mint: mint, Owner: owner, Amount: 0}
		copy(holding.Data, fresh.Serialize())
	} else if err != nil {
		return err
	}
	if !holding.Owner.Equal(ProgramID) {
		return ErrIllegalOwner
	}
	balance := ParseAccount(holding.Data)
	if balance == nil || !balance.Initialized {
		return fmt.Errorf("token account %v is corrupted", destination)
	}
	if !balance.Mint.Equal(mint) {
		return ErrWrongMint
	}

	balance.Amount += amount
	config.Supply += amount
	copy(holding.Data, balance.Serialize())
	copy(mintAccount.Data, config.Serialize())
	if err := tx.Write(destination, holding); err != nil {
		return err
	}
	if err := tx.Write(mint, mintAccount); err != nil {
		return err
	}
	p.log.Debug("minted tokens", "mint", mint, "owner", owner, "amount", amount)
	return nil
}

// BalanceOf reads the owner's balance in base units. A missing associated
// account reads as zero.
func (p *Program) BalanceOf(tx *ledger.Tx, mint, owner crypto.Token) (uint64, error) {
	destination := AssociatedTokenAddress(owner, mint)
	holding, err := tx.Account(destination)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	balance := ParseAccount(holding.Data)
	if balance == nil || !balance.Initialized {
		return 0, fmt.Errorf("token account %v is corrupted", destination)
	}
	return balance.Amount, nil
}
