package crypto

import (
	"crypto/sha256"
	"errors"

	"filippo.io/edwards25519"
)

// derivedAddressMarker is appended to every seed list so that derived
// addresses can never collide with hashes computed for other purposes.
const derivedAddressMarker = "PlumeDerivedAddress"

// MaxSeedLength bounds each individual seed.
const MaxSeedLength = 32

var ErrInvalidSeeds = errors.New("invalid derivation seeds")

// ErrAddressOnCurve signals that a candidate address is a valid Ed25519
// point and therefore unusable as a derived address.
var ErrAddressOnCurve = errors.New("derived address lands on the ed25519 curve")

// CreateProgramAddress derives the address for a known bump. It fails with
// ErrAddressOnCurve when the candidate is a valid curve point, since such
// an address could be controlled by an external signing key.
func CreateProgramAddress(seeds [][]byte, bump byte, program Token) (Token, error) {
	hasher := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return ZeroToken, ErrInvalidSeeds
		}
		hasher.Write(seed)
	}
	hasher.Write([]byte{bump})
	hasher.Write(program[:])
	hasher.Write([]byte(derivedAddressMarker))
	var candidate Token
	copy(candidate[:], hasher.Sum(nil))
	if isOnCurve(candidate) {
		return ZeroToken, ErrAddressOnCurve
	}
	return candidate, nil
}

// FindProgramAddress returns the derived address for the seed list together
// with the bump that pushed it off the curve. It is pure: the same seeds and
// program always yield the same address. Roughly half of all candidates are
// off-curve, so the loop terminates almost immediately; exhaustion of the
// bump space is treated as fatal.
func FindProgramAddress(seeds [][]byte, program Token) (Token, byte) {
	for bump := 255; bump >= 0; bump-- {
		address, err := CreateProgramAddress(seeds, byte(bump), program)
		if err == nil {
			return address, byte(bump)
		}
		if !errors.Is(err, ErrAddressOnCurve) {
			panic(err)
		}
	}
	panic("derived address bump space exhausted")
}

func isOnCurve(token Token) bool {
	_, err := new(edwards25519.Point).SetBytes(token[:])
	return err == nil
}
