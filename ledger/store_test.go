package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plumenet/plume/crypto"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndRead(t *testing.T) {
	store := testStore(t)
	program, _ := crypto.RandomAsymetricKey()
	address, _ := crypto.RandomAsymetricKey()

	err := store.Execute(func(tx *Tx) error {
		account, err := tx.Create(address, program, 100)
		require.NoError(t, err)
		require.Len(t, account.Data, 100)
		copy(account.Data, []byte("payload"))
		return tx.Write(address, account)
	})
	require.NoError(t, err)

	err = store.View(func(tx *Tx) error {
		account, err := tx.Account(address)
		require.NoError(t, err)
		require.Equal(t, program, account.Owner)
		require.Equal(t, []byte("payload"), account.Data[:7])
		return nil
	})
	require.NoError(t, err)
}

func TestCreateExistingFails(t *testing.T) {
	store := testStore(t)
	program, _ := crypto.RandomAsymetricKey()
	address, _ := crypto.RandomAsymetricKey()

	require.NoError(t, store.Execute(func(tx *Tx) error {
		_, err := tx.Create(address, program, 10)
		return err
	}))
	err := store.Execute(func(tx *Tx) error {
		_, err := tx.Create(address, program, 10)
		return err
	})
	require.ErrorIs(t, err, ErrAccountExists)
}

func TestExecuteDiscardsOnError(t *testing.T) {
	store := testStore(t)
	program, _ := crypto.RandomAsymetricKey()
	address, _ := crypto.RandomAsymetricKey()
	boom := errors.New("boom")

	err := store.Execute(func(tx *Tx) error {
		if _, err := tx.Create(address, program, 10); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.View(func(tx *Tx) error {
		_, err := tx.Account(address)
		return err
	})
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestMissingAccount(t *testing.T) {
	store := testStore(t)
	address, _ := crypto.RandomAsymetricKey()
	err := store.View(func(tx *Tx) error {
		_, err := tx.Account(address)
		return err
	})
	require.ErrorIs(t, err, ErrAccountNotFound)
}
