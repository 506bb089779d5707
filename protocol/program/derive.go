package program

import (
	"github.com/plumenet/plume/crypto"
	"github.com/plumenet/plume/protocol/state"
	"github.com/plumenet/plume/util"
)

// ID is the well-known id of the plume record program. Record slots are
// owned by it and every derived address is namespaced under it.
var ID = crypto.Token(crypto.Hasher([]byte("plume intro program v1")))

const (
	mintSeed     = "token_mint"
	mintAuthSeed = "token_auth"
	introSeed    = state.IntroTag
	counterSeed  = state.CounterTag
)

// IntroAddress derives the singleton intro slot for an owner. Any party
// holding the owner token can recompute it.
func IntroAddress(owner crypto.Token) crypto.Token {
	address, _ := crypto.FindProgramAddress([][]byte{owner[:], []byte(introSeed)}, ID)
	return address
}

// CounterAddress derives the reply counter slot for an intro.
func CounterAddress(intro crypto.Token) crypto.Token {
	address, _ := crypto.FindProgramAddress([][]byte{intro[:], []byte(counterSeed)}, ID)
	return address
}

// ReplyAddress derives the slot of the n-th reply (zero based) to an intro.
// The sequence number is seeded big-endian, so the n-th reply is computable
// by any external reader without iteration.
func ReplyAddress(intro crypto.Token, sequence uint64) crypto.Token {
	address, _ := crypto.FindProgramAddress([][]byte{intro[:], util.Uint64ToBigEndian(sequence)}, ID)
	return address
}

// MintAddress derives the deployment-wide reward mint singleton.
func MintAddress() crypto.Token {
	address, _ := crypto.FindProgramAddress([][]byte{[]byte(mintSeed)}, ID)
	return address
}

// MintAuthority derives the keyless identity that authorizes reward mints.
// No private key can sign for it: derivation guarantees it is off-curve.
func MintAuthority() crypto.Token {
	address, _ := crypto.FindProgramAddress([][]byte{[]byte(mintAuthSeed)}, ID)
	return address
}
