/*
Package crypto implements the cryptographic primitives of the plume ledger.

A Token is an Ed25519 public key and is used both as an account identity and
as the address of a storage slot. Program-derived addresses share the Token
type but are guaranteed to lie outside the Ed25519 curve, so no private key
can ever sign on their behalf.
*/
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
)

const (
	TokenSize      = 32
	PrivateKeySize = 64
	SignatureSize  = 64
)

type Token [TokenSize]byte

type PrivateKey [PrivateKeySize]byte

type Signature [SignatureSize]byte

var ZeroToken Token

var ZeroPrivateKey PrivateKey

// RandomAsymetricKey returns a fresh Ed25519 key pair.
func RandomAsymetricKey() (Token, PrivateKey) {
	public, secret, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	var token Token
	var key PrivateKey
	copy(token[:], public)
	copy(key[:], secret)
	return token, key
}

func PrivateKeyFromSeed(seed [32]byte) PrivateKey {
	var key PrivateKey
	copy(key[:], ed25519.NewKeyFromSeed(seed[:]))
	return key
}

func IsValidPrivateKey(data []byte) bool {
	if len(data) != PrivateKeySize {
		return false
	}
	var key PrivateKey
	copy(key[:], data)
	token := key.PublicKey()
	signature := key.Sign([]byte("validate"))
	return token.Verify([]byte("validate"), signature)
}

func (t Token) Equal(another Token) bool {
	return t == another
}

func (t Token) Verify(msg []byte, signature Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(t[:]), msg, signature[:])
}

func (t Token) String() string {
	return hex.EncodeToString(t[:])
}

func TokenFromString(text string) Token {
	var token Token
	bytes, err := hex.DecodeString(text)
	if err != nil || len(bytes) != TokenSize {
		return ZeroToken
	}
	copy(token[:], bytes)
	return token
}

func (t Token) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(t[:])), nil
}

func (t *Token) UnmarshalText(text []byte) error {
	_, err := hex.Decode(t[:], text)
	return err
}

func (pk PrivateKey) Sign(msg []byte) Signature {
	var signature Signature
	copy(signature[:], ed25519.Sign(ed25519.PrivateKey(pk[:]), msg))
	return signature
}

func (pk PrivateKey) PublicKey() Token {
	var token Token
	copy(token[:], pk[32:])
	return token
}
