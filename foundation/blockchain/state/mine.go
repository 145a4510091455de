package state

import (
	"math"
	"time"

	"github.com/foxchain/blockchain/foundation/blockchain/database"
)

// MineResult is what a mining round produced.
type MineResult struct {
	Block    database.Block
	Rejected []database.BlockTx
}

// MineNewBlock takes every transaction in the mempool, applies the ones that
// still pass against the account state, and seals them into a new block that
// is committed to the chain. The miner is credited the reward before any
// transaction is applied. Transactions that no longer pass are marked as
// rejected and dropped from the mempool.
func (s *State) MineNewBlock() (MineResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	trans := s.mempool.Copy()

	s.evHandler("state: MineNewBlock: MINING: started: mempool[%d]", len(trans))
	defer func() {
		s.evHandler("state: MineNewBlock: MINING: completed: duration[%s]", time.Since(start))
	}()

	minerID := s.wallet.Address()
	l := newLedger(s.db)

	miner := l.account(minerID)
	if err := miner.Credit(s.genesis.MiningReward); err != nil {
		s.evHandler("state: MineNewBlock: WARNING: mining reward: %s", err)
	}
	l.put(miner)

	accepted := make([]database.BlockTx, 0, len(trans))
	var rejected []database.BlockTx

	for _, tx := range trans {
		if err := l.apply(minerID, tx); err != nil {
			tx.Status = database.TxRejected
			rejected = append(rejected, tx)
			s.evHandler("state: MineNewBlock: REJECTED: tx[%s]: %s", tx, err)
			continue
		}

		tx.Status = database.TxAccepted
		accepted = append(accepted, tx)
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW: accepted[%d]: rejected[%d]", len(accepted), len(rejected))

	latest := s.db.LatestBlock()
	block, err := database.POW(database.POWArgs{
		PrevBlockHash: latest.Hash(),
		PrevTimeStamp: latest.Header.TimeStamp,
		Difficulty:    uint(s.genesis.Difficulty),
		Trans:         accepted,
		EvHandler:     s.evHandler,
	})
	if err != nil {
		return MineResult{}, err
	}

	s.evHandler("state: MineNewBlock: MINING: commit: blk[%s]: accounts[%d]", block.Hash(), len(l.touched))

	if err := s.commit(block, l.changes(), trans); err != nil {
		s.evHandler("state: MineNewBlock: ERROR: commit: %s", err)
		return MineResult{}, err
	}

	s.evHandler("viewer: block: mined[%s]: trans[%d]", block.Hash(), len(accepted))

	result := MineResult{
		Block:    block,
		Rejected: rejected,
	}

	return result, nil
}

// commit writes the block and accounts and removes the mined transactions
// from the mempool as one step for readers. Only the transactions that were
// taken for this block leave the mempool.
func (s *State) commit(block database.Block, accounts []database.Account, trans []database.BlockTx) error {
	s.view.Lock()
	defer s.view.Unlock()

	if err := s.db.Commit(block, accounts); err != nil {
		return err
	}

	s.mempool.Delete(trans...)

	return nil
}

// =============================================================================

// ledger stages account changes for a mining round on top of the database
// so nothing is visible until the block is committed.
type ledger struct {
	db      *database.Database
	staged  map[database.AccountID]database.Account
	touched []database.AccountID
}

func newLedger(db *database.Database) *ledger {
	return &ledger{
		db:     db,
		staged: make(map[database.AccountID]database.Account),
	}
}

// account returns the staged account, falling back to the database and
// then to a new empty account.
func (l *ledger) account(accountID database.AccountID) database.Account {
	if account, exists := l.staged[accountID]; exists {
		return account
	}

	account, err := l.db.Account(accountID)
	if err != nil {
		account = database.Account{AccountID: accountID}
	}

	return account
}

// put stages the account.
func (l *ledger) put(account database.Account) {
	if _, exists := l.staged[account.AccountID]; !exists {
		l.touched = append(l.touched, account.AccountID)
	}
	l.staged[account.AccountID] = account
}

// apply re-checks the transaction against the staged accounts and moves
// the value and fee. The staged accounts are untouched on failure.
func (l *ledger) apply(minerID database.AccountID, tx database.BlockTx) error {

	// The miner can also be the sender or the recipient so every change
	// goes through this set before it is staged.
	work := make(map[database.AccountID]database.Account, 3)
	get := func(accountID database.AccountID) database.Account {
		if account, exists := work[accountID]; exists {
			return account
		}
		return l.account(accountID)
	}

	sender := get(tx.Sender)

	if tx.Nonce != sender.Nonce {
		return newTxError(NonceMismatch, "nonce %d, expected %d", tx.Nonce, sender.Nonce)
	}

	if tx.Sender.Equals(tx.Recipient) {
		return newTxError(SelfTransfer, "sender and recipient are the same account")
	}

	if tx.Value > math.MaxUint64-tx.Fee {
		return newTxError(InsufficientFunds, "value %d plus fee %d overflows", tx.Value, tx.Fee)
	}

	if err := sender.Debit(tx.Value + tx.Fee); err != nil {
		return newTxError(InsufficientFunds, "%s", err)
	}
	sender.IncrementNonce()
	work[tx.Sender] = sender

	recipient := get(tx.Recipient)
	if err := recipient.Credit(tx.Value); err != nil {
		return err
	}
	work[tx.Recipient] = recipient

	miner := get(minerID)
	if err := miner.Credit(tx.Fee); err != nil {
		return err
	}
	work[minerID] = miner

	for _, id := range []database.AccountID{tx.Sender, tx.Recipient, minerID} {
		if account, exists := work[id]; exists {
			l.put(account)
			delete(work, id)
		}
	}

	return nil
}

// changes returns the staged accounts in the order they were first touched.
func (l *ledger) changes() []database.Account {
	accounts := make([]database.Account, len(l.touched))
	for i, id := range l.touched {
		accounts[i] = l.staged[id]
	}
	return accounts
}
