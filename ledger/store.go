/*
Package ledger implements the storage substrate for the plume program: a
store of fixed-size accounts keyed by address, with all-or-nothing execution
per operation.

Every operation runs inside a single badger transaction. A nil return from
the operation commits every staged mutation; any error discards them all.
Badger additionally detects conflicting writers per key, which serializes
increments of a given reply counter even under concurrent submission.
*/
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/plumenet/plume/crypto"
	"github.com/plumenet/plume/util"
)

var (
	ErrAccountNotFound = errors.New("account does not exist")
	ErrAccountExists   = errors.New("account already exists")
)

// SystemProgramID is the well-known id of the allocator. Operations name it
// explicitly and the validation gate compares the reference against this
// value.
var SystemProgramID = crypto.Token(crypto.Hasher([]byte("plume system program v1")))

var accountPrefix = []byte("acc:")

// Account is a storage slot. Owner is the program that is allowed to mutate
// the slot's data. Data has the fixed size chosen at allocation time.
type Account struct {
	Owner crypto.Token
	Data  []byte
}

func (a *Account) Serialize() []byte {
	bytes := make([]byte, 0, crypto.TokenSize+2+len(a.Data))
	util.PutToken(a.Owner, &bytes)
	util.PutByteArray(a.Data, &bytes)
	return bytes
}

func ParseAccount(data []byte) *Account {
	account := Account{}
	position := 0
	account.Owner, position = util.ParseToken(data, position)
	account.Data, position = util.ParseByteArray(data, position)
	if position != len(data) {
		return nil
	}
	return &account
}

// Config mirrors the knobs the store needs from its host. InMemory is meant
// for tests; persistent stores require a path.
type Config struct {
	Path       string
	InMemory   bool
	SyncWrites bool
	Logger     *slog.Logger
}

type Store struct {
	db  *badger.DB
	log *slog.Logger
}

// badgerLogger adapts slog to badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("ledger store requires a path or in-memory mode")
		}
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("could not create ledger directory: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Path).WithSyncWrites(cfg.SyncWrites)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.WithLogger(&badgerLogger{logger: logger})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger store: %w", err)
	}
	return &Store{db: db, log: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Execute runs one operation as an atomic unit. All account mutations staged
// through the Tx become visible only if fn returns nil.
func (s *Store) Execute(fn func(*Tx) error) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return fn(&Tx{txn: txn})
	})
}

// View runs a read-only function against a consistent snapshot.
func (s *Store) View(fn func(*Tx) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		return fn(&Tx{txn: txn})
	})
}

// Tx is the per-operation handle on the store. It is only valid for the
// duration of the Execute or View call that produced it.
type Tx struct {
	txn *badger.Txn
}

func accountKey(address crypto.Token) []byte {
	return append(append([]byte{}, accountPrefix...), address[:]...)
}

func (tx *Tx) Exists(address crypto.Token) bool {
	_, err := tx.txn.Get(accountKey(address))
	return err == nil
}

func (tx *Tx) Account(address crypto.Token) (*Account, error) {
	item, err := tx.txn.Get(accountKey(address))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not read account: %w", err)
	}
	var account *Account
	err = item.Value(func(val []byte) error {
		account = ParseAccount(val)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not read account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %v is corrupted", address)
	}
	return account, nil
}

// Create allocates a zeroed slot of the given size at address, owned by the
// given program. It fails if the slot already exists.
func (tx *Tx) Create(address crypto.Token, owner crypto.Token, size int) (*Account, error) {
	if tx.Exists(address) {
		return nil, ErrAccountExists
	}
	account := &Account{Owner: owner, Data: make([]byte, size)}
	if err := tx.txn.Set(accountKey(address), account.Serialize()); err != nil {
		return nil, fmt.Errorf("could not allocate account: %w", err)
	}
	return account, nil
}

func (tx *Tx) Write(address crypto.Token, account *Account) error {
	if err := tx.txn.Set(accountKey(address), account.Serialize()); err != nil {
		return fmt.Errorf("could not write account: %w", err)
	}
	return nil
}
