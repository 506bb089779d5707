package instructions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plumenet/plume/crypto"
	"github.com/plumenet/plume/util"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	actor, key := crypto.RandomAsymetricKey()
	slot, _ := crypto.RandomAsymetricKey()
	envelope := Envelope{
		Kind:     ICreateIntro,
		Actor:    actor,
		Accounts: []crypto.Token{actor, slot},
		Name:     "Alice",
		Message:  "hi",
	}
	envelope.Sign(key)

	parsed, err := ParseEnvelope(envelope.Serialize())
	require.NoError(t, err)
	require.Equal(t, envelope, *parsed)
	require.True(t, parsed.Verify())
}

func TestInitializeMintCarriesNoPayload(t *testing.T) {
	actor, key := crypto.RandomAsymetricKey()
	envelope := Envelope{Kind: IInitializeMint, Actor: actor, Accounts: []crypto.Token{actor}}
	envelope.Sign(key)

	withPayload := Envelope{Kind: IInitializeMint, Actor: actor, Accounts: []crypto.Token{actor}, Name: "ignored"}
	withPayload.Sign(key)
	require.Equal(t, envelope.Serialize(), withPayload.Serialize())

	parsed, err := ParseEnvelope(envelope.Serialize())
	require.NoError(t, err)
	require.Empty(t, parsed.Name)
	require.True(t, parsed.Verify())
}

func TestTamperedEnvelopeFailsVerify(t *testing.T) {
	actor, key := crypto.RandomAsymetricKey()
	envelope := Envelope{Kind: IReply, Actor: actor, Accounts: []crypto.Token{actor}, Name: "Bob", Message: "welcome"}
	envelope.Sign(key)

	parsed, err := ParseEnvelope(envelope.Serialize())
	require.NoError(t, err)
	parsed.Message = "forged"
	require.False(t, parsed.Verify())
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := ParseEnvelope(nil)
	require.ErrorIs(t, err, ErrInvalidInstruction)

	_, err = ParseEnvelope([]byte{ICreateIntro, 1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidInstruction)

	actor, key := crypto.RandomAsymetricKey()
	envelope := Envelope{Kind: IUpdateIntro, Actor: actor, Accounts: []crypto.Token{actor}}
	envelope.Sign(key)
	data := envelope.Serialize()
	data[0] = IUnknown
	_, err = ParseEnvelope(data)
	require.ErrorIs(t, err, ErrInvalidInstruction)

	_, err = ParseEnvelope(envelope.Serialize()[:10])
	require.ErrorIs(t, err, ErrInvalidInstruction)
}

func TestParseRejectsOverclaimedAccountCount(t *testing.T) {
	actor, _ := crypto.RandomAsymetricKey()
	data := []byte{ICreateIntro}
	util.PutToken(actor, &data)
	// a count field claiming 2^32-1 accounts in a near-empty buffer
	util.PutUint32(1<<32-1, &data)

	_, err := ParseEnvelope(data)
	require.ErrorIs(t, err, ErrInvalidInstruction)
}

func TestKind(t *testing.T) {
	require.Equal(t, IUnknown, Kind(nil))
	require.Equal(t, IReply, Kind([]byte{IReply, 0, 0}))
}
