/*
Package program implements the plume record program: the validation gate,
the record lifecycle handlers, and reward issuance.

An incoming operation is dispatched to one of four handlers. Each handler
re-derives every storage-slot address the operation depends on, compares it
against the caller-supplied reference, and only then allocates or mutates
slots. The whole handler runs inside one ledger transaction: any failure
discards every staged mutation, including reward tokens already minted.
*/
package program

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/plumenet/plume/ledger"
	"github.com/plumenet/plume/protocol/instructions"
	"github.com/plumenet/plume/protocol/state"
	"github.com/plumenet/plume/token"
)

// Reward issued to the actor on each successful operation, in base units.
// Updates never issue rewards.
const (
	IntroReward = 10 * token.Unit
	ReplyReward = 5 * token.Unit
)

type Processor struct {
	store *ledger.Store
	token *token.Program
	log   *slog.Logger
}

func NewProcessor(store *ledger.Store, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		store: store,
		token: token.NewProgram(log),
		log:   log,
	}
}

// Process decodes and executes one operation as a single atomic unit.
func (p *Processor) Process(data []byte) error {
	envelope, err := instructions.ParseEnvelope(data)
	if err != nil {
		return err
	}
	return p.ProcessEnvelope(envelope)
}

func (p *Processor) ProcessEnvelope(envelope *instructions.Envelope) error {
	switch envelope.Kind {
	case instructions.ICreateIntro:
		return p.store.Execute(func(tx *ledger.Tx) error {
			return p.createIntro(tx, envelope)
		})
	case instructions.IUpdateIntro:
		return p.store.Execute(func(tx *ledger.Tx) error {
			return p.updateIntro(tx, envelope)
		})
	case instructions.IReply:
		return p.store.Execute(func(tx *ledger.Tx) error {
			return p.reply(tx, envelope)
		})
	case instructions.IInitializeMint:
		return p.store.Execute(func(tx *ledger.Tx) error {
			return p.initializeMint(tx, envelope)
		})
	}
	return instructions.ErrInvalidInstruction
}

// createIntro allocates the actor's singleton intro and its reply counter,
// then mints the creation reward.
func (p *Processor) createIntro(tx *ledger.Tx, e *instructions.Envelope) error {
	if err := checkAccountCount(e, 8); err != nil {
		return err
	}
	if err := checkSingleton(e.Accounts[0], e.Actor); err != nil {
		return err
	}
	if err := checkSignature(e); err != nil {
		return err
	}
	introAddress := IntroAddress(e.Actor)
	if err := checkDerived(e.Accounts[1], introAddress); err != nil {
		return err
	}
	counterAddress := CounterAddress(introAddress)
	if err := checkDerived(e.Accounts[2], counterAddress); err != nil {
		return err
	}
	if err := checkRewardAccounts(e.Actor, e.Accounts[3], e.Accounts[4], e.Accounts[5], e.Accounts[6], e.Accounts[7]); err != nil {
		return err
	}
	if state.IntroSize(e.Name, e.Message) > state.Capacity {
		return ErrInvalidDataLength
	}

	introAccount, err := tx.Create(introAddress, ID, state.Capacity)
	if errors.Is(err, ledger.ErrAccountExists) {
		return ErrAlreadyInitialized
	}
	if err != nil {
		return err
	}
	counterAccount, err := tx.Create(counterAddress, ID, state.CounterSize)
	if errors.Is(err, ledger.ErrAccountExists) {
		return ErrAlreadyInitialized
	}
	if err != nil {
		return err
	}

	intro := state.Intro{Initialized: true, Writer: e.Actor, Name: e.Name, Message: e.Message}
	copy(introAccount.Data, intro.Serialize())
	if err := tx.Write(introAddress, introAccount); err != nil {
		return err
	}
	counter := state.ReplyCounter{Initialized: true, Count: 0}
	copy(counterAccount.Data, counter.Serialize())
	if err := tx.Write(counterAddress, counterAccount); err != nil {
		return err
	}

	if err := p.token.MintTo(tx, e.Accounts[3], e.Accounts[5], e.Actor, MintAuthority(), IntroReward); err != nil {
		return fmt.Errorf("reward issuance failed: %w", err)
	}
	p.log.Info("intro created", "writer", e.Actor, "intro", introAddress, "name", e.Name)
	return nil
}

// updateIntro overwrites the message of an existing intro. The payload's
// name field is accepted and ignored; the stored name never changes.
func (p *Processor) updateIntro(tx *ledger.Tx, e *instructions.Envelope) error {
	if err := checkAccountCount(e, 2); err != nil {
		return err
	}
	if err := checkSingleton(e.Accounts[0], e.Actor); err != nil {
		return err
	}
	if err := checkSignature(e); err != nil {
		return err
	}
	introAddress := IntroAddress(e.Actor)
	if err := checkDerived(e.Accounts[1], introAddress); err != nil {
		return err
	}

	introAccount, err := tx.Account(introAddress)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return ErrUninitializedAccount
	}
	if err != nil {
		return err
	}
	if err := checkOwned(introAccount); err != nil {
		return err
	}
	intro := state.ParseIntro(introAccount.Data)
	if intro == nil || !intro.Initialized {
		return ErrUninitializedAccount
	}
	if state.IntroSize(e.Name, e.Message) > state.Capacity {
		return ErrInvalidDataLength
	}

	intro.Message = e.Message
	if len(intro.Serialize()) > state.Capacity {
		return ErrInvalidDataLength
	}
	introAccount.Data = make([]byte, state.Capacity)
	copy(introAccount.Data, intro.Serialize())
	if err := tx.Write(introAddress, introAccount); err != nil {
		return err
	}
	p.log.Info("intro updated", "writer", e.Actor, "intro", introAddress)
	return nil
}

// reply appends an immutable reply record at the address derived from the
// current counter value, then increments the counter and mints the reply
// reward. Both writes commit together or not at all.
func (p *Processor) reply(tx *ledger.Tx, e *instructions.Envelope) error {
	if err := checkAccountCount(e, 9); err != nil {
		return err
	}
	if err := checkSingleton(e.Accounts[0], e.Actor); err != nil {
		return err
	}
	if err := checkSignature(e); err != nil {
		return err
	}
	if err := checkRewardAccounts(e.Actor, e.Accounts[4], e.Accounts[5], e.Accounts[6], e.Accounts[7], e.Accounts[8]); err != nil {
		return err
	}

	introAddress := e.Accounts[1]
	introAccount, err := tx.Account(introAddress)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return ErrUninitializedAccount
	}
	if err != nil {
		return err
	}
	if err := checkOwned(introAccount); err != nil {
		return err
	}
	intro := state.ParseIntro(introAccount.Data)
	if intro == nil || !intro.Initialized {
		return ErrUninitializedAccount
	}

	counterAddress := CounterAddress(introAddress)
	if err := checkDerived(e.Accounts[2], counterAddress); err != nil {
		return err
	}
	counterAccount, err := tx.Account(counterAddress)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return ErrUninitializedAccount
	}
	if err != nil {
		return err
	}
	if err := checkOwned(counterAccount); err != nil {
		return err
	}
	counter := state.ParseReplyCounter(counterAccount.Data)
	if counter == nil || !counter.Initialized {
		return ErrUninitializedAccount
	}

	// the counter value observed here becomes the reply's sequence number
	replyAddress := ReplyAddress(introAddress, counter.Count)
	if err := checkDerived(e.Accounts[3], replyAddress); err != nil {
		return err
	}
	if state.ReplySize(e.Name, e.Message) > state.Capacity {
		return ErrInvalidDataLength
	}

	replyAccount, err := tx.Create(replyAddress, ID, state.Capacity)
	if errors.Is(err, ledger.ErrAccountExists) {
		return ErrAlreadyInitialized
	}
	if err != nil {
		return err
	}
	reply := state.Reply{Initialized: true, Intro: introAddress, Replier: e.Actor, Name: e.Name, Message: e.Message}
	copy(replyAccount.Data, reply.Serialize())
	if err := tx.Write(replyAddress, replyAccount); err != nil {
		return err
	}

	counter.Count += 1
	copy(counterAccount.Data, counter.Serialize())
	if err := tx.Write(counterAddress, counterAccount); err != nil {
		return err
	}

	if err := p.token.MintTo(tx, e.Accounts[4], e.Accounts[6], e.Actor, MintAuthority(), ReplyReward); err != nil {
		return fmt.Errorf("reward issuance failed: %w", err)
	}
	p.log.Info("reply created", "replier", e.Actor, "intro", introAddress, "sequence", counter.Count-1)
	return nil
}

// initializeMint performs the one-time setup of the reward mint and its
// keyless authority. Running it twice fails on the second allocation.
func (p *Processor) initializeMint(tx *ledger.Tx, e *instructions.Envelope) error {
	if err := checkAccountCount(e, 5); err != nil {
		return err
	}
	if err := checkSingleton(e.Accounts[0], e.Actor); err != nil {
		return err
	}
	if err := checkSignature(e); err != nil {
		return err
	}
	if err := checkSingleton(e.Accounts[1], MintAddress()); err != nil {
		return err
	}
	if err := checkSingleton(e.Accounts[2], MintAuthority()); err != nil {
		return err
	}
	if err := checkSingleton(e.Accounts[3], ledger.SystemProgramID); err != nil {
		return err
	}
	if err := checkSingleton(e.Accounts[4], token.ProgramID); err != nil {
		return err
	}

	err := p.token.InitializeMint(tx, MintAddress(), MintAuthority(), token.Decimals)
	if errors.Is(err, ledger.ErrAccountExists) {
		return ErrAlreadyInitialized
	}
	if err != nil {
		return err
	}
	p.log.Info("reward mint initialized", "mint", MintAddress(), "authority", MintAuthority())
	return nil
}
