// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/foxchain/blockchain/foundation/blockchain/database"
	"github.com/foxchain/blockchain/foundation/blockchain/database/storage/leveldb"
	"github.com/foxchain/blockchain/foundation/blockchain/genesis"
	"github.com/foxchain/blockchain/foundation/blockchain/mempool"
	"github.com/foxchain/blockchain/foundation/blockchain/signature"
	"github.com/foxchain/blockchain/foundation/blockchain/wallet"
)

// EventHandler defines a function that is called when events
// occur in the processing of persisting blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining in the background.
type Worker interface {
	Shutdown()
	SignalStartMining()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Genesis   genesis.Genesis
	Wallet    wallet.Wallet
	Storage   database.Storage
	EvHandler EventHandler
}

// State manages the blockchain database.
type State struct {
	mu sync.Mutex

	// view is held for writing while a mined block becomes visible and its
	// transactions leave the mempool. Readers of the chain and the mempool
	// hold it for reading so they never see a transaction in both.
	view sync.RWMutex

	genesis   genesis.Genesis
	wallet    wallet.Wallet
	evHandler EventHandler

	mempool *mempool.Mempool
	db      *database.Database

	Worker Worker
}

// New constructs a new blockchain for data management. When the storage
// holds no blocks a genesis block is mined and committed along with any
// balances the genesis carries.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}

	if cfg.Wallet.PrivateKey() == nil {
		return nil, errors.New("node wallet is required")
	}

	// Access the storage for the blockchain and load what it holds.
	db, err := database.New(cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	state := State{
		genesis:   cfg.Genesis,
		wallet:    cfg.Wallet,
		evHandler: ev,
		mempool:   mempool.New(),
		db:        db,
	}

	if db.BlockCount() == 0 {
		if err := state.createGenesisBlock(); err != nil {
			return nil, err
		}
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Paths returns the locations of the store and the node wallet for a
// node listening on the specified port.
func Paths(root string, port int) (dbPath string, walletPath string) {
	dir := filepath.Join(root, "blockchaindb_"+strconv.Itoa(port))
	return filepath.Join(dir, "ledger"), filepath.Join(dir, "nodewallet.dat")
}

// Open constructs a node whose store and wallet live under the root
// directory for the specified port. A new wallet is generated the first
// time a node runs.
func Open(root string, port int, gen genesis.Genesis, evHandler EventHandler) (*State, error) {
	dbPath, walletPath := Paths(root, port)

	w, err := wallet.LoadOrGenerate(walletPath)
	if err != nil {
		return nil, fmt.Errorf("node wallet: %w", err)
	}

	strg, err := leveldb.New(dbPath)
	if err != nil {
		return nil, err
	}

	state, err := New(Config{
		Genesis:   gen,
		Wallet:    w,
		Storage:   strg,
		EvHandler: evHandler,
	})
	if err != nil {
		strg.Close()
		return nil, err
	}

	return state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Make sure the database is properly closed.
	return s.db.Close()
}

// =============================================================================

// createGenesisBlock mines the first block of the chain and commits it
// with the genesis balances.
func (s *State) createGenesisBlock() error {
	s.evHandler("state: createGenesisBlock: MINING: difficulty[%d]", s.genesis.Difficulty)

	var accounts []database.Account
	for addr, balance := range s.genesis.Balances {
		accountID, err := database.ToAccountID(addr)
		if err != nil {
			return fmt.Errorf("genesis balance %q: %w", addr, err)
		}
		accounts = append(accounts, database.Account{AccountID: accountID, Balance: balance})
	}

	block, err := database.POW(database.POWArgs{
		PrevBlockHash: signature.ZeroHash,
		Difficulty:    uint(s.genesis.Difficulty),
		EvHandler:     s.evHandler,
	})
	if err != nil {
		return err
	}

	if err := s.db.Commit(block, accounts); err != nil {
		return err
	}

	s.evHandler("viewer: block: genesis[%s]", block.Hash())

	return nil
}
