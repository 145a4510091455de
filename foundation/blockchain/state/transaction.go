package state

import (
	"math"

	"github.com/foxchain/blockchain/foundation/blockchain/database"
)

// UpsertWalletTransaction accepts a transaction from a wallet for inclusion.
// Balances and nonces are only checked here, they change at mining time.
func (s *State) UpsertWalletTransaction(signedTx database.SignedTx, publicKey []byte) (database.BlockTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateTransaction(signedTx, publicKey); err != nil {
		s.evHandler("state: UpsertWalletTransaction: REJECTED: tx[%s]: %s", signedTx, err)
		return database.BlockTx{}, err
	}

	tx := database.NewBlockTx(signedTx)
	n := s.mempool.Upsert(tx)

	s.evHandler("state: UpsertWalletTransaction: accepted: tx[%s]: hash[%s]: mempool[%d]", signedTx, tx.Hash(), n)
	s.evHandler("viewer: tx: added: %s -> %s: value[%d]", tx.Sender, tx.Recipient, tx.Value)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return tx, nil
}

// SignAndSubmitNodeTransaction signs the transaction with the node's own
// wallet and submits it. The sender must be the node's address.
func (s *State) SignAndSubmitNodeTransaction(tx database.Tx) (database.BlockTx, error) {
	if tx.Sender != s.wallet.Address() {
		return database.BlockTx{}, newTxError(AddressMismatch, "sender %s is not the node %s", tx.Sender, s.wallet.Address())
	}

	signedTx, err := s.wallet.Sign(tx)
	if err != nil {
		return database.BlockTx{}, err
	}

	return s.UpsertWalletTransaction(signedTx, s.wallet.PublicKey())
}

// =============================================================================

// validateTransaction takes the signed transaction and validates it against
// the admission rules in order. The first rule that fails is returned. The
// sender and recipient accounts are created before the account rules run.
func (s *State) validateTransaction(signedTx database.SignedTx, publicKey []byte) error {
	switch {
	case signedTx.Sender == "":
		return newTxError(MissingField, "sender is required")
	case signedTx.Recipient == "":
		return newTxError(MissingField, "recipient is required")
	case len(signedTx.Signature) == 0:
		return newTxError(MissingField, "signature is required")
	case len(publicKey) == 0:
		return newTxError(MissingField, "public key is required")
	}

	if len(signedTx.Comment) > database.MaxCommentLength {
		return newTxError(CommentTooLong, "comment is %d bytes, max %d", len(signedTx.Comment), database.MaxCommentLength)
	}

	if fromID := database.PublicKeyToAccountID(publicKey); fromID != signedTx.Sender {
		return newTxError(AddressMismatch, "sender %s does not match public key address %s", signedTx.Sender, fromID)
	}

	if !signedTx.Verify(publicKey) {
		return newTxError(BadSignature, "signature does not match the transaction")
	}

	if !signedTx.Recipient.IsAccountID() {
		return newTxError(InvalidAddress, "recipient %s is not a valid address", signedTx.Recipient)
	}

	sender, err := s.db.GetOrCreateAccount(signedTx.Sender)
	if err != nil {
		return err
	}

	if _, err := s.db.GetOrCreateAccount(signedTx.Recipient); err != nil {
		return err
	}

	if signedTx.Nonce != sender.Nonce {
		return newTxError(NonceMismatch, "nonce %d, expected %d", signedTx.Nonce, sender.Nonce)
	}

	if signedTx.Sender.Equals(signedTx.Recipient) {
		return newTxError(SelfTransfer, "sender and recipient are the same account")
	}

	if signedTx.Value > math.MaxUint64-signedTx.Fee || !sender.CanSpend(signedTx.Value+signedTx.Fee) {
		return newTxError(InsufficientFunds, "balance %d, needed value %d plus fee %d", sender.Balance, signedTx.Value, signedTx.Fee)
	}

	if signedTx.Value < 1 {
		return newTxError(BelowMinimumValue, "value must be at least 1 atomic unit")
	}

	return nil
}
