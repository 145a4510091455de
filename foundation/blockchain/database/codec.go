package database

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/foxchain/blockchain/foundation/blockchain/merkle"
)

// recordVersion is written as the first field of every stored record.
const recordVersion = 1

// Key prefixes used in the key value store.
var (
	BlockPrefix   = []byte("block_")   // BlockPrefix + block hash -> block record
	AccountPrefix = []byte("account_") // AccountPrefix + address -> account record
)

// BlockKey returns the store key for the block hash.
func BlockKey(hash string) []byte {
	return append(append([]byte{}, BlockPrefix...), hash...)
}

// AccountKey returns the store key for the account.
func AccountKey(accountID AccountID) []byte {
	return append(append([]byte{}, AccountPrefix...), accountID...)
}

// =============================================================================

// accountRecord is what is written to the store for an account.
type accountRecord struct {
	Version uint64
	Address string
	Balance uint64
	Nonce   uint64
}

// txRecord is what is written to the store for a transaction in a block.
type txRecord struct {
	Sender    string
	Recipient string
	Value     uint64
	Fee       uint64
	Nonce     uint64
	Comment   string
	Signature []byte
	TimeStamp uint64
	Status    uint64
}

// blockRecord is what is written to the store for a block.
type blockRecord struct {
	Version       uint64
	Hash          string
	PrevBlockHash string
	TimeStamp     uint64
	Nonce         uint64
	Difficulty    uint64
	MerkleRoot    string
	Trans         []txRecord
}

// EncodeAccount serializes an account for the store.
func EncodeAccount(account Account) ([]byte, error) {
	rec := accountRecord{
		Version: recordVersion,
		Address: string(account.AccountID),
		Balance: account.Balance,
		Nonce:   account.Nonce,
	}

	return rlp.EncodeToBytes(rec)
}

// DecodeAccount deserializes an account from the store.
func DecodeAccount(data []byte) (Account, error) {
	var rec accountRecord
	if err := rlp.DecodeBytes(data, &rec); err != nil {
		return Account{}, fmt.Errorf("decoding account: %w", err)
	}

	if rec.Version != recordVersion {
		return Account{}, fmt.Errorf("unsupported account record version %d", rec.Version)
	}

	account := Account{
		AccountID: AccountID(rec.Address),
		Balance:   rec.Balance,
		Nonce:     rec.Nonce,
	}

	return account, nil
}

// EncodeBlock serializes a block for the store.
func EncodeBlock(block Block) ([]byte, error) {
	values := block.Transactions()

	trans := make([]txRecord, len(values))
	for i, tx := range values {
		trans[i] = txRecord{
			Sender:    string(tx.Sender),
			Recipient: string(tx.Recipient),
			Value:     tx.Value,
			Fee:       tx.Fee,
			Nonce:     tx.Nonce,
			Comment:   tx.Comment,
			Signature: tx.Signature,
			TimeStamp: tx.TimeStamp,
			Status:    uint64(tx.Status),
		}
	}

	rec := blockRecord{
		Version:       recordVersion,
		Hash:          block.Hash(),
		PrevBlockHash: block.Header.PrevBlockHash,
		TimeStamp:     block.Header.TimeStamp,
		Nonce:         uint64(block.Header.Nonce),
		Difficulty:    uint64(block.Header.Difficulty),
		MerkleRoot:    block.Header.MerkleRoot,
		Trans:         trans,
	}

	return rlp.EncodeToBytes(rec)
}

// DecodeBlock deserializes a block from the store. The stored hash must
// match the hash calculated from the decoded header.
func DecodeBlock(data []byte) (Block, error) {
	var rec blockRecord
	if err := rlp.DecodeBytes(data, &rec); err != nil {
		return Block{}, fmt.Errorf("decoding block: %w", err)
	}

	if rec.Version != recordVersion {
		return Block{}, fmt.Errorf("unsupported block record version %d", rec.Version)
	}

	if rec.Nonce > uint64(^uint32(0)) {
		return Block{}, fmt.Errorf("block nonce %d out of range", rec.Nonce)
	}

	trans := make([]BlockTx, len(rec.Trans))
	for i, tr := range rec.Trans {
		trans[i] = BlockTx{
			SignedTx: SignedTx{
				Tx: Tx{
					Sender:    AccountID(tr.Sender),
					Recipient: AccountID(tr.Recipient),
					Value:     tr.Value,
					Fee:       tr.Fee,
					Nonce:     tr.Nonce,
					Comment:   tr.Comment,
				},
				Signature: tr.Signature,
			},
			TimeStamp: tr.TimeStamp,
			Status:    TxStatus(tr.Status),
		}
	}

	tree, err := merkle.NewTree(trans)
	if err != nil {
		return Block{}, err
	}

	block := Block{
		Header: BlockHeader{
			PrevBlockHash: rec.PrevBlockHash,
			TimeStamp:     rec.TimeStamp,
			Nonce:         uint32(rec.Nonce),
			Difficulty:    uint(rec.Difficulty),
			MerkleRoot:    rec.MerkleRoot,
		},
		Trans: tree,
	}

	if hash := block.Hash(); hash != rec.Hash {
		return Block{}, fmt.Errorf("stored block hash %s does not match calculated hash %s", rec.Hash, hash)
	}

	return block, nil
}
