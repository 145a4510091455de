package state

import (
	"github.com/foxchain/blockchain/foundation/blockchain/database"
	"github.com/foxchain/blockchain/foundation/blockchain/genesis"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// NodeAddress returns the address of the node's own wallet. This is the
// account credited for mining.
func (s *State) NodeAddress() database.AccountID {
	return s.wallet.Address()
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.view.RLock()
	defer s.view.RUnlock()

	return s.db.LatestBlock()
}

// RetrieveBlock returns the block at the specified index in the chain.
func (s *State) RetrieveBlock(num uint64) (database.Block, error) {
	s.view.RLock()
	defer s.view.RUnlock()

	return s.db.BlockByNumber(num)
}

// RetrieveBlockByHash returns the block with the specified hash and its
// index in the chain.
func (s *State) RetrieveBlockByHash(hash string) (database.Block, uint64, error) {
	s.view.RLock()
	defer s.view.RUnlock()

	return s.db.BlockByHash(hash)
}

// RetrieveChain returns a copy of the full chain, genesis first.
func (s *State) RetrieveChain() []database.Block {
	s.view.RLock()
	defer s.view.RUnlock()

	return s.db.Blocks()
}

// RetrieveAccount returns a copy of the account.
func (s *State) RetrieveAccount(accountID database.AccountID) (database.Account, error) {
	s.view.RLock()
	defer s.view.RUnlock()

	return s.db.Account(accountID)
}

// RetrieveAccounts returns a copy of every account ordered by address.
func (s *State) RetrieveAccounts() []database.Account {
	s.view.RLock()
	defer s.view.RUnlock()

	return s.db.SortedAccounts()
}

// RetrieveMempool returns a copy of the mempool in the order the
// transactions were accepted.
func (s *State) RetrieveMempool() []database.BlockTx {
	s.view.RLock()
	defer s.view.RUnlock()

	return s.mempool.Copy()
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	s.view.RLock()
	defer s.view.RUnlock()

	return s.mempool.Count()
}

// QueryAccountTransactions returns every transaction the account sent or
// received. Mined transactions come first in chain order followed by the
// pending transactions.
func (s *State) QueryAccountTransactions(accountID database.AccountID) []database.BlockTx {
	s.view.RLock()
	defer s.view.RUnlock()

	var out []database.BlockTx

	for _, block := range s.db.Blocks() {
		for _, tx := range block.Transactions() {
			if tx.Touches(accountID) {
				out = append(out, tx)
			}
		}
	}

	for _, tx := range s.mempool.Copy() {
		if tx.Touches(accountID) {
			out = append(out, tx)
		}
	}

	return out
}

// QueryChainLength returns the number of blocks in the chain, genesis
// included.
func (s *State) QueryChainLength() int {
	s.view.RLock()
	defer s.view.RUnlock()

	return s.db.BlockCount()
}
