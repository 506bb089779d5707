// Package util implements byte-oriented serialization helpers shared by the
// plume wire formats. Values are encoded little-endian with length-prefixed
// byte arrays, except where a format explicitly calls for big-endian.
package util

import (
	"github.com/plumenet/plume/crypto"
)

// Uint64ToBigEndian encodes v big-endian. Reply addresses use the counter
// value in this form as a derivation seed.
func Uint64ToBigEndian(v uint64) []byte {
	return []byte{
		byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32),
		byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
	}
}

func PutToken(token crypto.Token, data *[]byte) {
	*data = append(*data, token[:]...)
}

func PutSignature(sign crypto.Signature, data *[]byte) {
	*data = append(*data, sign[:]...)
}

// PutByteArray puts a byte array up to 2^16 bytes into a byte array
func PutByteArray(b []byte, data *[]byte) {
	if len(b) == 0 {
		*data = append(*data, 0, 0)
		return
	}
	if len(b) > 1<<16-1 {
		*data = append(*data, append([]byte{255, 255}, b[0:1<<16-1]...)...)
		return
	}
	v := len(b)
	*data = append(*data, append([]byte{byte(v), byte(v >> 8)}, b...)...)
}

func PutString(value string, data *[]byte) {
	PutByteArray([]byte(value), data)
}

func PutUint16(v uint16, data *[]byte) {
	*data = append(*data, byte(v), byte(v>>8))
}

func PutUint32(v uint32, data *[]byte) {
	b := make([]byte, 4)
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	*data = append(*data, b...)
}

func PutUint64(v uint64, data *[]byte) {
	b := make([]byte, 8)
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
	*data = append(*data, b...)
}

func PutBool(b bool, data *[]byte) {
	if b {
		*data = append(*data, 1)
	} else {
		*data = append(*data, 0)
	}
}

func PutByte(b byte, data *[]byte) {
	*data = append(*data, b)
}

func PutTokenArray(b []crypto.Token, data *[]byte) {
	count := uint32(len(b))
	PutUint32(count, data)
	for _, token := range b {
		PutToken(token, data)
	}
}

func ParseToken(data []byte, position int) (crypto.Token, int) {
	var token crypto.Token
	if position+crypto.TokenSize > len(data) {
		return token, position
	}
	copy(token[:], data[position:position+crypto.TokenSize])
	return token, position + crypto.TokenSize
}

func ParseSignature(data []byte, position int) (crypto.Signature, int) {
	var sign crypto.Signature
	if position+crypto.SignatureSize > len(data) {
		return sign, position
	}
	copy(sign[0:crypto.SignatureSize], data[position:position+crypto.SignatureSize])
	return sign, position + crypto.SignatureSize
}

func ParseByteArray(data []byte, position int) ([]byte, int) {
	if position+1 >= len(data) {
		return []byte{}, position
	}
	length := int(data[position+0]) | int(data[position+1])<<8
	if length == 0 {
		return []byte{}, position + 2
	}
	if position+length+2 > len(data) {
		return []byte{}, position + length + 2
	}
	return (data[position+2 : position+length+2]), position + length + 2
}

func ParseString(data []byte, position int) (string, int) {
	bytes, newPosition := ParseByteArray(data, position)
	if bytes != nil {
		return string(bytes), newPosition
	}
	return "", newPosition
}

func ParseUint16(data []byte, position int) (uint16, int) {
	if position+1 >= len(data) {
		return 0, position + 2
	}
	value := uint16(data[position+0]) |
		uint16(data[position+1])<<8
	return value, position + 2
}

func ParseUint32(data []byte, position int) (uint32, int) {
	if position+3 >= len(data) {
		return 0, position + 4
	}
	value := uint32(data[position+0]) |
		uint32(data[position+1])<<8 |
		uint32(data[position+2])<<16 |
		uint32(data[position+3])<<24
	return value, position + 4
}

func ParseUint64(data []byte, position int) (uint64, int) {
	if position+7 >= len(data) {
		return 0, position + 8
	}
	value := uint64(data[position+0]) |
		uint64(data[position+1])<<8 |
		uint64(data[position+2])<<16 |
		uint64(data[position+3])<<24 |
		uint64(data[position+4])<<32 |
		uint64(data[position+5])<<40 |
		uint64(data[position+6])<<48 |
		uint64(data[position+7])<<56
	return value, position + 8
}

func ParseBool(data []byte, position int) (bool, int) {
	if position >= len(data) {
		return false, position + 1
	}
	return data[position] != 0, position + 1
}

func ParseByte(data []byte, position int) (byte, int) {
	if position >= len(data) {
		return 0, position + 1
	}
	return data[position], position + 1
}

// ParseTokenArray returns nil on a malformed encoding. The count field is
// untrusted input, so it is bounded by the remaining bytes before any
// allocation.
func ParseTokenArray(data []byte, position int) ([]crypto.Token, int) {
	if position+3 >= len(data) {
		return nil, position
	}
	var count uint32
	count, position = ParseUint32(data, position)
	if int64(count)*crypto.TokenSize > int64(len(data)-position) {
		return nil, position
	}
	array := make([]crypto.Token, int(count))
	for n := 0; n < int(count); n++ {
		array[n], position = ParseToken(data, position)
	}
	return array, position
}
