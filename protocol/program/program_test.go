package program

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plumenet/plume/crypto"
	"github.com/plumenet/plume/ledger"
	"github.com/plumenet/plume/protocol/instructions"
	"github.com/plumenet/plume/protocol/state"
	"github.com/plumenet/plume/token"
)

type fixture struct {
	processor *Processor
	payer     crypto.Token
	payerKey  crypto.PrivateKey
}

// newFixture opens an in-memory ledger and performs the one-time mint setup.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := ledger.Open(ledger.Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	processor := NewProcessor(store, nil)
	payer, payerKey := crypto.RandomAsymetricKey()
	setup := NewInitializeMint(payer)
	setup.Sign(payerKey)
	require.NoError(t, processor.Process(setup.Serialize()))
	return &fixture{processor: processor, payer: payer, payerKey: payerKey}
}

func (f *fixture) create(t *testing.T, actor crypto.Token, key crypto.PrivateKey, name, message string) error {
	t.Helper()
	envelope := NewCreateIntro(actor, name, message)
	envelope.Sign(key)
	return f.processor.Process(envelope.Serialize())
}

func (f *fixture) update(t *testing.T, actor crypto.Token, key crypto.PrivateKey, name, message string) error {
	t.Helper()
	envelope := NewUpdateIntro(actor, name, message)
	envelope.Sign(key)
	return f.processor.Process(envelope.Serialize())
}

func (f *fixture) reply(t *testing.T, actor crypto.Token, key crypto.PrivateKey, introOwner crypto.Token, sequence uint64, name, message string) error {
	t.Helper()
	envelope := NewReply(actor, introOwner, sequence, name, message)
	envelope.Sign(key)
	return f.processor.Process(envelope.Serialize())
}

func TestCreateIntroTwice(t *testing.T) {
	f := newFixture(t)
	alice, aliceKey := crypto.RandomAsymetricKey()

	require.NoError(t, f.create(t, alice, aliceKey, "Alice", "hi"))
	require.ErrorIs(t, f.create(t, alice, aliceKey, "Alice", "hi again"), ErrAlreadyInitialized)
}

func TestInitializeMintTwice(t *testing.T) {
	f := newFixture(t)
	setup := NewInitializeMint(f.payer)
	setup.Sign(f.payerKey)
	require.ErrorIs(t, f.processor.Process(setup.Serialize()), ErrAlreadyInitialized)
}

func TestReplyAddressingAndCounter(t *testing.T) {
	f := newFixture(t)
	alice, aliceKey := crypto.RandomAsymetricKey()
	require.NoError(t, f.create(t, alice, aliceKey, "Alice", "hi"))
	intro := IntroAddress(alice)

	const k = 5
	for n := uint64(0); n < k; n++ {
		bob, bobKey := crypto.RandomAsymetricKey()
		require.NoError(t, f.reply(t, bob, bobKey, alice, n, "Bob", "welcome"))

		count, err := f.processor.ReplyCount(alice)
		require.NoError(t, err)
		require.Equal(t, n+1, count)
	}

	replies, err := f.processor.Replies(alice)
	require.NoError(t, err)
	require.Len(t, replies, k)
	for _, reply := range replies {
		require.Equal(t, intro, reply.Intro)
		require.Equal(t, "welcome", reply.Message)
	}
}

func TestReplyWithStaleSequence(t *testing.T) {
	f := newFixture(t)
	alice, aliceKey := crypto.RandomAsymetricKey()
	require.NoError(t, f.create(t, alice, aliceKey, "Alice", "hi"))

	bob, bobKey := crypto.RandomAsymetricKey()
	require.NoError(t, f.reply(t, bob, bobKey, alice, 0, "Bob", "first"))
	// sequence 0 was consumed; the derived reply reference no longer matches
	require.ErrorIs(t, f.reply(t, bob, bobKey, alice, 0, "Bob", "again"), ErrInvalidPDA)
	require.NoError(t, f.reply(t, bob, bobKey, alice, 1, "Bob", "again"))
}

func TestCapacityBoundary(t *testing.T) {
	f := newFixture(t)
	alice, aliceKey := crypto.RandomAsymetricKey()

	exact := strings.Repeat("m", state.Capacity-state.IntroSize("Alice", ""))
	require.Equal(t, state.Capacity, state.IntroSize("Alice", exact))
	require.NoError(t, f.create(t, alice, aliceKey, "Alice", exact))

	carol, carolKey := crypto.RandomAsymetricKey()
	require.ErrorIs(t, f.create(t, carol, carolKey, "Alice", exact+"x"), ErrInvalidDataLength)

	require.NoError(t, f.update(t, alice, aliceKey, "Alice", exact))
	require.ErrorIs(t, f.update(t, alice, aliceKey, "Alice", exact+"x"), ErrInvalidDataLength)

	replyExact := strings.Repeat("m", state.Capacity-state.ReplySize("Bob", ""))
	bob, bobKey := crypto.RandomAsymetricKey()
	require.NoError(t, f.reply(t, bob, bobKey, alice, 0, "Bob", replyExact))
	require.ErrorIs(t, f.reply(t, bob, bobKey, alice, 1, "Bob", replyExact+"x"), ErrInvalidDataLength)
}

func TestUpdateWithWrongIntroReference(t *testing.T) {
	f := newFixture(t)
	alice, aliceKey := crypto.RandomAsymetricKey()
	require.NoError(t, f.create(t, alice, aliceKey, "Alice", "hi"))

	envelope := NewUpdateIntro(alice, "Alice", "valid payload")
	wrong, _ := crypto.RandomAsymetricKey()
	envelope.Accounts[1] = wrong
	envelope.Sign(aliceKey)
	require.ErrorIs(t, f.processor.Process(envelope.Serialize()), ErrInvalidPDA)
}

func TestUpdateUninitialized(t *testing.T) {
	f := newFixture(t)
	alice, aliceKey := crypto.RandomAsymetricKey()
	require.ErrorIs(t, f.update(t, alice, aliceKey, "Alice", "hello"), ErrUninitializedAccount)
}

func TestSignatureRequired(t *testing.T) {
	f := newFixture(t)
	alice, _ := crypto.RandomAsymetricKey()
	_, otherKey := crypto.RandomAsymetricKey()

	envelope := NewCreateIntro(alice, "Alice", "hi")
	envelope.Sign(otherKey) // not alice's key
	require.ErrorIs(t, f.processor.Process(envelope.Serialize()), ErrMissingSignature)
}

func TestSingletonSubstitutionRejected(t *testing.T) {
	f := newFixture(t)
	alice, aliceKey := crypto.RandomAsymetricKey()
	forged, _ := crypto.RandomAsymetricKey()

	for _, position := range []int{3, 4, 5, 6, 7} {
		envelope := NewCreateIntro(alice, "Alice", "hi")
		envelope.Accounts[position] = forged
		envelope.Sign(aliceKey)
		require.ErrorIs(t, f.processor.Process(envelope.Serialize()), ErrIncorrectAccount, "position %d", position)
	}

	envelope := NewCreateIntro(alice, "Alice", "hi")
	envelope.Accounts[2] = forged
	envelope.Sign(aliceKey)
	require.ErrorIs(t, f.processor.Process(envelope.Serialize()), ErrInvalidPDA)
}

func TestEndToEnd(t *testing.T) {
	f := newFixture(t)
	alice, aliceKey := crypto.RandomAsymetricKey()
	bob, bobKey := crypto.RandomAsymetricKey()

	require.NoError(t, f.create(t, alice, aliceKey, "Alice", "hi"))
	intro, err := f.processor.Intro(alice)
	require.NoError(t, err)
	require.Equal(t, "Alice", intro.Name)
	require.Equal(t, "hi", intro.Message)
	count, err := f.processor.ReplyCount(alice)
	require.NoError(t, err)
	require.Zero(t, count)
	balance, err := f.processor.RewardBalance(alice)
	require.NoError(t, err)
	require.Equal(t, IntroReward, balance)

	require.NoError(t, f.reply(t, bob, bobKey, alice, 0, "Bob", "welcome"))
	count, err = f.processor.ReplyCount(alice)
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
	balance, err = f.processor.RewardBalance(bob)
	require.NoError(t, err)
	require.Equal(t, ReplyReward, balance)
	replies, err := f.processor.Replies(alice)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	require.Equal(t, bob, replies[0].Replier)

	require.NoError(t, f.update(t, alice, aliceKey, "ignored name", "hello"))
	intro, err = f.processor.Intro(alice)
	require.NoError(t, err)
	require.Equal(t, "Alice", intro.Name, "update never changes the name")
	require.Equal(t, "hello", intro.Message)
	count, err = f.processor.ReplyCount(alice)
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
	balance, err = f.processor.RewardBalance(alice)
	require.NoError(t, err)
	require.Equal(t, IntroReward, balance, "updates issue no reward")
}

func TestRewardAmountsAcrossSequence(t *testing.T) {
	f := newFixture(t)
	alice, aliceKey := crypto.RandomAsymetricKey()
	bob, bobKey := crypto.RandomAsymetricKey()

	require.NoError(t, f.create(t, alice, aliceKey, "Alice", "hi"))
	require.NoError(t, f.create(t, bob, bobKey, "Bob", "hey"))
	require.NoError(t, f.reply(t, bob, bobKey, alice, 0, "Bob", "welcome"))
	require.NoError(t, f.reply(t, alice, aliceKey, bob, 0, "Alice", "thanks"))
	require.NoError(t, f.reply(t, bob, bobKey, alice, 1, "Bob", "more"))
	require.NoError(t, f.update(t, alice, aliceKey, "Alice", "edited"))

	aliceBalance, err := f.processor.RewardBalance(alice)
	require.NoError(t, err)
	require.Equal(t, IntroReward+ReplyReward, aliceBalance)

	bobBalance, err := f.processor.RewardBalance(bob)
	require.NoError(t, err)
	require.Equal(t, IntroReward+2*ReplyReward, bobBalance)
}

func TestReplyToMissingIntro(t *testing.T) {
	f := newFixture(t)
	ghost, _ := crypto.RandomAsymetricKey()
	bob, bobKey := crypto.RandomAsymetricKey()
	require.ErrorIs(t, f.reply(t, bob, bobKey, ghost, 0, "Bob", "anyone?"), ErrUninitializedAccount)
}

func TestCreateWithoutMintSetup(t *testing.T) {
	store, err := ledger.Open(ledger.Config{InMemory: true})
	require.NoError(t, err)
	defer store.Close()
	processor := NewProcessor(store, nil)

	alice, aliceKey := crypto.RandomAsymetricKey()
	envelope := NewCreateIntro(alice, "Alice", "hi")
	envelope.Sign(aliceKey)
	err = processor.Process(envelope.Serialize())
	require.Error(t, err)

	// the aborted operation left nothing behind
	_, err = processor.Intro(alice)
	require.ErrorIs(t, err, ErrUninitializedAccount)
}

func TestAccountCountEnforced(t *testing.T) {
	f := newFixture(t)
	alice, aliceKey := crypto.RandomAsymetricKey()
	envelope := NewCreateIntro(alice, "Alice", "hi")
	envelope.Accounts = envelope.Accounts[:7]
	envelope.Sign(aliceKey)
	require.ErrorIs(t, f.processor.Process(envelope.Serialize()), ErrIncorrectAccount)
}

func TestMalformedOperation(t *testing.T) {
	f := newFixture(t)
	require.ErrorIs(t, f.processor.Process([]byte{instructions.ICreateIntro}), instructions.ErrInvalidInstruction)
	require.ErrorIs(t, f.processor.Process(nil), instructions.ErrInvalidInstruction)
}

func TestForeignOwnedSlotRejected(t *testing.T) {
	f := newFixture(t)
	alice, aliceKey := crypto.RandomAsymetricKey()
	introAddress := IntroAddress(alice)

	// a well-formed intro record sitting in a slot another program owns
	intro := state.Intro{Initialized: true, Writer: alice, Name: "Alice", Message: "hi"}
	require.NoError(t, f.processor.store.Execute(func(tx *ledger.Tx) error {
		account, err := tx.Create(introAddress, token.ProgramID, state.Capacity)
		if err != nil {
			return err
		}
		copy(account.Data, intro.Serialize())
		return tx.Write(introAddress, account)
	}))

	require.ErrorIs(t, f.update(t, alice, aliceKey, "Alice", "edited"), ErrIllegalOwner)

	bob, bobKey := crypto.RandomAsymetricKey()
	require.ErrorIs(t, f.reply(t, bob, bobKey, alice, 0, "Bob", "welcome"), ErrIllegalOwner)
}

func TestDerivedSingletonsAreStable(t *testing.T) {
	require.Equal(t, MintAddress(), MintAddress())
	require.Equal(t, MintAuthority(), MintAuthority())
	require.NotEqual(t, MintAddress(), MintAuthority())
	require.Equal(t, token.AssociatedTokenAddress(ID, MintAddress()), token.AssociatedTokenAddress(ID, MintAddress()))
}
