package crypto

import (
	"crypto/sha256"
	"encoding/base64"
)

// Size is the size in bytes of a sha256 hash.
const Size = sha256.Size

type Hash [Size]byte

var hashLength = base64.StdEncoding.EncodedLen(Size)

func (h Hash) MarshalText() (text []byte, err error) {
	text = make([]byte, hashLength)
	base64.StdEncoding.Encode(text, h[:])
	return
}

func (h *Hash) UnmarshalText(text []byte) error {
	_, err := base64.StdEncoding.Decode(h[:], text)
	return err
}

func Hasher(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}
