/*
Package token implements the fungible reward sub-ledger. It keeps the mint
configuration and per-owner token accounts as fixed-size slots in the host
ledger, owned by the token program's well-known id.

One whole token corresponds to 10^Decimals base units. The plume program
mints whole-token multiples; bookkeeping is always in base units.
*/
package token

import (
	"github.com/plumenet/plume/crypto"
	"github.com/plumenet/plume/util"
)

// ProgramID is the well-known id of the token sub-ledger.
var ProgramID = crypto.Token(crypto.Hasher([]byte("plume token program v1")))

const (
	Decimals = 9
	// Unit is the number of base units in one whole token.
	Unit = uint64(1_000_000_000)

	// MintSize is the fixed slot capacity of a mint account.
	MintSize = 1 + crypto.TokenSize + 8 + 1
	// AccountSize is the fixed slot capacity of a token account.
	AccountSize = 1 + crypto.TokenSize + crypto.TokenSize + 8
)

// Mint is the configuration of a fungible token. A mint with no freeze
// authority cannot lock holder accounts.
type Mint struct {
	Initialized bool
	Authority   crypto.Token
	Supply      uint64
	Decimals    byte
}

func (m *Mint) Serialize() []byte {
	bytes := make([]byte, 0, MintSize)
	util.PutBool(m.Initialized, &bytes)
	util.PutToken(m.Authority, &bytes)
	util.PutUint64(m.Supply, &bytes)
	util.PutByte(m.Decimals, &bytes)
	return bytes
}

func ParseMint(data []byte) *Mint {
	if len(data) < MintSize {
		return nil
	}
	mint := Mint{}
	position := 0
	mint.Initialized, position = util.ParseBool(data, position)
	mint.Authority, position = util.ParseToken(data, position)
	mint.Supply, position = util.ParseUint64(data, position)
	mint.Decimals, _ = util.ParseByte(data, position)
	return &mint
}

// Account holds an owner's balance of a given mint.
type Account struct {
	Initialized bool
	Mint        crypto.Token
	Owner       crypto.Token
	Amount      uint64
}

func (a *Account) Serialize() []byte {
	bytes := make([]byte, 0, AccountSize)
	util.PutBool(a.Initialized, &bytes)
	util.PutToken(a.Mint, &bytes)
	util.PutToken(a.Owner, &bytes)
	util.PutUint64(a.Amount, &bytes)
	return bytes
}

func ParseAccount(data []byte) *Account {
	if len(data) < AccountSize {
		return nil
	}
	account := Account{}
	position := 0
	account.Initialized, position = util.ParseBool(data, position)
	account.Mint, position = util.ParseToken(data, position)
	account.Owner, position = util.ParseToken(data, position)
	account.Amount, _ = util.ParseUint64(data, position)
	return &account
}

// AssociatedTokenAddress derives the canonical token account address for an
// owner and mint. Any party holding the two tokens can recompute it.
func AssociatedTokenAddress(owner, mint crypto.Token) crypto.Token {
	address, _ := crypto.FindProgramAddress([][]byte{owner[:], ProgramID[:], mint[:]}, ProgramID)
	return address
}
