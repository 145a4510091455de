// Package database handles all the lower level support for maintaining the
// blockchain and the account information in memory while mirroring both into
// a durable key value store.
package database

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Set of error variables for the database.
var (
	ErrNotFound = errors.New("not found")
	ErrStore    = errors.New("store failure")
)

// Storage interface represents the behavior required to be implemented by any
// package providing an ordered key value store for the blockchain.
type Storage interface {
	Write(records []Record) error
	ForEach(prefix []byte) Iterator
	Close() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over a key range in order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Record is a single key value pair written to storage.
type Record struct {
	Key   []byte
	Value []byte
}

// =============================================================================

// Database manages the chain and the accounts who have transacted on the
// blockchain. The store is a mirror of this data, not a second source.
type Database struct {
	mu sync.RWMutex

	chain    []Block
	accounts map[AccountID]Account

	storage   Storage
	evHandler func(v string, args ...any)
}

// New constructs a new database and reloads every block and account
// held in the storage. Blocks are ordered by their timestamp.
func New(storage Storage, evHandler func(v string, args ...any)) (*Database, error) {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	db := Database{
		accounts:  make(map[AccountID]Account),
		storage:   storage,
		evHandler: ev,
	}

	// Load all existing blocks from storage into memory for processing.
	iter := storage.ForEach(BlockPrefix)
	for iter.Next() {
		block, err := DecodeBlock(iter.Value())
		if err != nil {
			iter.Release()
			return nil, fmt.Errorf("key %s: %w", iter.Key(), err)
		}
		db.chain = append(db.chain, block)
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("reading blocks: %w", err)
	}

	// The store has no intrinsic order for blocks so sort them by time.
	sort.SliceStable(db.chain, func(i, j int) bool {
		if db.chain[i].Header.TimeStamp == db.chain[j].Header.TimeStamp {
			return db.chain[i].Hash() < db.chain[j].Hash()
		}
		return db.chain[i].Header.TimeStamp < db.chain[j].Header.TimeStamp
	})

	iter = storage.ForEach(AccountPrefix)
	for iter.Next() {
		account, err := DecodeAccount(iter.Value())
		if err != nil {
			iter.Release()
			return nil, fmt.Errorf("key %s: %w", iter.Key(), err)
		}
		db.accounts[account.AccountID] = account
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}

	ev("database: New: loaded blocks[%d] accounts[%d]", len(db.chain), len(db.accounts))

	// Report any break in the chain. The data is still loaded as it is.
	var prev Block
	for _, block := range db.chain {
		if err := block.ValidateBlock(prev, func(string, ...any) {}); err != nil {
			ev("database: New: WARNING: chain validation: %s", err)
		}
		prev = block
	}

	return &db, nil
}

// Close closes the storage.
func (db *Database) Close() error {
	return db.storage.Close()
}

// =============================================================================

// GetOrCreateAccount returns the account for the id, creating and
// persisting a new zero balance account if it doesn't exist.
func (db *Database) GetOrCreateAccount(accountID AccountID) (Account, error) {
	db.mu.RLock()
	account, exists := db.accounts[accountID]
	db.mu.RUnlock()

	if exists {
		return account, nil
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if account, exists := db.accounts[accountID]; exists {
		return account, nil
	}

	account = newAccount(accountID)

	data, err := EncodeAccount(account)
	if err != nil {
		return Account{}, err
	}

	if err := db.write([]Record{{Key: AccountKey(accountID), Value: data}}); err != nil {
		return Account{}, err
	}

	db.accounts[accountID] = account
	db.evHandler("database: GetOrCreateAccount: created account[%s]", accountID)

	return account, nil
}

// Account returns the account for the id.
func (db *Database) Account(accountID AccountID) (Account, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	account, exists := db.accounts[accountID]
	if !exists {
		return Account{}, fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}

	return account, nil
}

// SortedAccounts returns a copy of the current accounts ordered by the
// account id.
func (db *Database) SortedAccounts() []Account {
	db.mu.RLock()
	accounts := make([]Account, 0, len(db.accounts))
	for _, account := range db.accounts {
		accounts = append(accounts, account)
	}
	db.mu.RUnlock()

	sort.Sort(byAccount(accounts))

	return accounts
}

// Blocks returns a copy of the chain, genesis first.
func (db *Database) Blocks() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	blocks := make([]Block, len(db.chain))
	copy(blocks, db.chain)
	return blocks
}

// BlockCount returns the number of blocks in the chain.
func (db *Database) BlockCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.chain)
}

// BlockByNumber returns the block at the index in the chain.
func (db *Database) BlockByNumber(num uint64) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if num >= uint64(len(db.chain)) {
		return Block{}, fmt.Errorf("block %d: %w", num, ErrNotFound)
	}

	return db.chain[num], nil
}

// BlockByHash returns the block with the specified hash and its index in
// the chain.
func (db *Database) BlockByHash(hash string) (Block, uint64, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for num, block := range db.chain {
		if block.Hash() == hash {
			return block, uint64(num), nil
		}
	}

	return Block{}, 0, fmt.Errorf("block %s: %w", hash, ErrNotFound)
}

// LatestBlock returns the latest block. The zero Block is returned when
// the chain is empty.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if len(db.chain) == 0 {
		return Block{}
	}

	return db.chain[len(db.chain)-1]
}

// Commit writes the block and the changed accounts to storage in a single
// batch and then makes them visible in memory. Nothing changes in memory
// if the write fails.
func (db *Database) Commit(block Block, accounts []Account) error {
	records := make([]Record, 0, len(accounts)+1)

	for _, account := range accounts {
		data, err := EncodeAccount(account)
		if err != nil {
			return err
		}
		records = append(records, Record{Key: AccountKey(account.AccountID), Value: data})
	}

	data, err := EncodeBlock(block)
	if err != nil {
		return err
	}
	records = append(records, Record{Key: BlockKey(block.Hash()), Value: data})

	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.write(records); err != nil {
		return err
	}

	db.chain = append(db.chain, block)
	for _, account := range accounts {
		db.accounts[account.AccountID] = account
	}

	return nil
}

// =============================================================================

// write sends the records to storage, retrying once before giving up.
func (db *Database) write(records []Record) error {
	err := db.storage.Write(records)
	if err == nil {
		return nil
	}

	db.evHandler("database: write: WARNING: retrying: %s", err)

	if err := db.storage.Write(records); err != nil {
		db.evHandler("database: write: ERROR: %s", err)
		return fmt.Errorf("%w: %w", ErrStore, err)
	}

	return nil
}
