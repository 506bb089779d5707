package program

import (
	"errors"

	"github.com/plumenet/plume/crypto"
	"github.com/plumenet/plume/ledger"
	"github.com/plumenet/plume/protocol/state"
)

// Read-side helpers for wallets and tooling. They run against a consistent
// snapshot and perform no mutation.

// Intro returns the owner's intro record, or ErrUninitializedAccount when
// none was ever created.
func (p *Processor) Intro(owner crypto.Token) (*state.Intro, error) {
	var intro *state.Intro
	err := p.store.View(func(tx *ledger.Tx) error {
		account, err := tx.Account(IntroAddress(owner))
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return ErrUninitializedAccount
		}
		if err != nil {
			return err
		}
		intro = state.ParseIntro(account.Data)
		if intro == nil || !intro.Initialized {
			return ErrUninitializedAccount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return intro, nil
}

// ReplyCount returns the number of replies ever created for the owner's
// intro.
func (p *Processor) ReplyCount(owner crypto.Token) (uint64, error) {
	var count uint64
	err := p.store.View(func(tx *ledger.Tx) error {
		account, err := tx.Account(CounterAddress(IntroAddress(owner)))
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return ErrUninitializedAccount
		}
		if err != nil {
			return err
		}
		counter := state.ParseReplyCounter(account.Data)
		if counter == nil || !counter.Initialized {
			return ErrUninitializedAccount
		}
		count = counter.Count
		return nil
	})
	return count, err
}

// Replies walks the gap-free reply sequence of the owner's intro by
// recomputing each address from its sequence number.
func (p *Processor) Replies(owner crypto.Token) ([]state.Reply, error) {
	count, err := p.ReplyCount(owner)
	if err != nil {
		return nil, err
	}
	intro := IntroAddress(owner)
	replies := make([]state.Reply, 0, count)
	err = p.store.View(func(tx *ledger.Tx) error {
		for sequence := uint64(0); sequence < count; sequence++ {
			account, err := tx.Account(ReplyAddress(intro, sequence))
			if err != nil {
				return err
			}
			reply := state.ParseReply(account.Data)
			if reply == nil || !reply.Initialized {
				return ErrUninitializedAccount
			}
			replies = append(replies, *reply)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return replies, nil
}

// RewardBalance returns the owner's reward balance in base units. A missing
// token account reads as zero.
func (p *Processor) RewardBalance(owner crypto.Token) (uint64, error) {
	var balance uint64
	err := p.store.View(func(tx *ledger.Tx) error {
		var err error
		balance, err = p.token.BalanceOf(tx, MintAddress(), owner)
		return err
	})
	return balance, err
}
