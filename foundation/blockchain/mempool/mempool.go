// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"sync"

	"github.com/foxchain/blockchain/foundation/blockchain/database"
)

// Mempool represents a cache of pending transactions keyed by the
// transaction hash. Transactions are handed out in the order they
// were added.
type Mempool struct {
	mu    sync.RWMutex
	pool  map[string]database.BlockTx
	order []string
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{
		pool: make(map[string]database.BlockTx),
	}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds or replaces a transaction in the mempool. A replaced
// transaction keeps its original position.
func (mp *Mempool) Upsert(tx database.BlockTx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	key := tx.Hash()
	if _, exists := mp.pool[key]; !exists {
		mp.order = append(mp.order, key)
	}
	mp.pool[key] = tx

	return len(mp.pool)
}

// Delete removes the transactions from the mempool. Transactions that
// are not in the pool are ignored.
func (mp *Mempool) Delete(txs ...database.BlockTx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	removed := false
	for _, tx := range txs {
		key := tx.Hash()
		if _, exists := mp.pool[key]; exists {
			delete(mp.pool, key)
			removed = true
		}
	}

	if !removed {
		return
	}

	order := make([]string, 0, len(mp.pool))
	for _, key := range mp.order {
		if _, exists := mp.pool[key]; exists {
			order = append(order, key)
		}
	}
	mp.order = order
}

// Copy returns a snapshot of the pool in the order the transactions
// were added.
func (mp *Mempool) Copy() []database.BlockTx {
	return mp.PickBest(-1)
}

// PickBest returns the next set of transactions for the next block in the
// order they were added. Pass -1 for all the transactions.
func (mp *Mempool) PickBest(howMany int) []database.BlockTx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	if howMany < 0 || howMany > len(mp.order) {
		howMany = len(mp.order)
	}

	txs := make([]database.BlockTx, 0, howMany)
	for _, key := range mp.order[:howMany] {
		txs = append(txs, mp.pool[key])
	}

	return txs
}
