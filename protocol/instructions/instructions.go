/*
Package instructions implements the wire encoding of plume operations.

An operation travels as a single buffer: the first byte selects the
operation, followed by the actor token, the positional list of storage-slot
references the operation names, the payload fields, and a trailing Ed25519
signature by the actor over everything that precedes it.

The account list is positional and operation-specific; the program's
validation gate re-derives and cross-checks every reference, so a caller
gains nothing by reordering or substituting entries.
*/
package instructions

import (
	"errors"

	"github.com/plumenet/plume/crypto"
	"github.com/plumenet/plume/util"
)

const (
	ICreateIntro byte = iota
	IUpdateIntro
	IReply
	IInitializeMint
	IUnknown
)

var ErrInvalidInstruction = errors.New("malformed operation encoding")

// Envelope is a decoded operation. Name and Message are empty for
// IInitializeMint, which carries no payload.
type Envelope struct {
	Kind      byte
	Actor     crypto.Token
	Accounts  []crypto.Token
	Name      string
	Message   string
	Signature crypto.Signature
}

func (e *Envelope) serializeSign() []byte {
	bytes := []byte{e.Kind}
	util.PutToken(e.Actor, &bytes)
	util.PutTokenArray(e.Accounts, &bytes)
	if e.Kind != IInitializeMint {
		util.PutString(e.Name, &bytes)
		util.PutString(e.Message, &bytes)
	}
	return bytes
}

func (e *Envelope) Serialize() []byte {
	bytes := e.serializeSign()
	util.PutSignature(e.Signature, &bytes)
	return bytes
}

// Sign signs the envelope on behalf of the actor.
func (e *Envelope) Sign(key crypto.PrivateKey) {
	e.Signature = key.Sign(e.serializeSign())
}

// Verify checks the actor's signature. The validation gate calls this once
// per operation before any mutation.
func (e *Envelope) Verify() bool {
	return e.Actor.Verify(e.serializeSign(), e.Signature)
}

// Kind returns the opcode of an encoded operation without decoding it.
func Kind(data []byte) byte {
	if len(data) == 0 {
		return IUnknown
	}
	return data[0]
}

// ParseEnvelope decodes an operation buffer. It checks structure only;
// signature verification is the validation gate's job.
func ParseEnvelope(data []byte) (*Envelope, error) {
	if len(data) < 1+crypto.TokenSize {
		return nil, ErrInvalidInstruction
	}
	envelope := Envelope{Kind: data[0]}
	if envelope.Kind >= IUnknown {
		return nil, ErrInvalidInstruction
	}
	position := 1
	envelope.Actor, position = util.ParseToken(data, position)
	envelope.Accounts, position = util.ParseTokenArray(data, position)
	if envelope.Accounts == nil {
		return nil, ErrInvalidInstruction
	}
	if envelope.Kind != IInitializeMint {
		envelope.Name, position = util.ParseString(data, position)
		envelope.Message, position = util.ParseString(data, position)
	}
	if position+crypto.SignatureSize > len(data) {
		return nil, ErrInvalidInstruction
	}
	envelope.Signature, position = util.ParseSignature(data, position)
	if position != len(data) {
		return nil, ErrInvalidInstruction
	}
	return &envelope, nil
}
