package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
)

// Cipher seals and opens small payloads with AES-GCM. It is used by the
// key vault to protect private keys at rest.
type Cipher struct {
	gcm cipher.AEAD
}

var ErrCipherOpen = errors.New("could not decrypt sealed data")

func CipherFromKey(key []byte) Cipher {
	block, err := aes.NewCipher(key)
	if err != nil {
		panic(err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		panic(err)
	}
	return Cipher{gcm: gcm}
}

// Seal encrypts data with a fresh random nonce prepended to the output.
func (c Cipher) Seal(data []byte) []byte {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		panic(err)
	}
	return c.gcm.Seal(nonce, nonce, data, nil)
}

func (c Cipher) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < c.gcm.NonceSize() {
		return nil, ErrCipherOpen
	}
	nonce := sealed[:c.gcm.NonceSize()]
	naked, err := c.gcm.Open(nil, nonce, sealed[c.gcm.NonceSize():], nil)
	if err != nil {
		return nil, ErrCipherOpen
	}
	return naked, nil
}
