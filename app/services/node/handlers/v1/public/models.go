package public

import (
	"github.com/foxchain/blockchain/foundation/blockchain/database"
	"github.com/foxchain/blockchain/foundation/blockchain/genesis"
	"github.com/foxchain/blockchain/foundation/nameservice"
)

type account struct {
	Address     database.AccountID `json:"address"`
	Name        string             `json:"name"`
	Balance     string             `json:"balance"`
	NanoBalance uint64             `json:"nanoBalance"`
	Nonce       uint64             `json:"nonce"`
}

func toAccount(gen genesis.Genesis, ns *nameservice.NameService, acc database.Account) account {
	return account{
		Address:     acc.AccountID,
		Name:        ns.Lookup(acc.AccountID),
		Balance:     gen.FormatUnits(acc.Balance),
		NanoBalance: acc.Balance,
		Nonce:       acc.Nonce,
	}
}

type tx struct {
	Hash          string             `json:"hash"`
	Sender        database.AccountID `json:"sender"`
	SenderName    string             `json:"senderName"`
	Recipient     database.AccountID `json:"recipient"`
	RecipientName string             `json:"recipientName"`
	Value         uint64             `json:"value"`
	Fee           uint64             `json:"fee"`
	Nonce         uint64             `json:"nonce"`
	Comment       string             `json:"comment"`
	Signature     string             `json:"signature"`
	TimeStamp     uint64             `json:"timestamp"`
	Status        string             `json:"status"`
}

func toTx(ns *nameservice.NameService, blockTx database.BlockTx) tx {
	return tx{
		Hash:          blockTx.Hash(),
		Sender:        blockTx.Sender,
		SenderName:    ns.Lookup(blockTx.Sender),
		Recipient:     blockTx.Recipient,
		RecipientName: ns.Lookup(blockTx.Recipient),
		Value:         blockTx.Value,
		Fee:           blockTx.Fee,
		Nonce:         blockTx.Nonce,
		Comment:       blockTx.Comment,
		Signature:     blockTx.SignatureString(),
		TimeStamp:     blockTx.TimeStamp,
		Status:        blockTx.Status.String(),
	}
}

func toTxs(ns *nameservice.NameService, trans []database.BlockTx) []tx {
	txs := make([]tx, len(trans))
	for i, blockTx := range trans {
		txs[i] = toTx(ns, blockTx)
	}
	return txs
}

type block struct {
	Number       uint64 `json:"number"`
	Hash         string `json:"hash"`
	PrevHash     string `json:"previousHash"`
	TimeStamp    uint64 `json:"timestamp"`
	Nonce        uint32 `json:"nonce"`
	Difficulty   uint   `json:"difficulty"`
	MerkleRoot   string `json:"merkleRoot"`
	Transactions []tx   `json:"transactions"`
}

func toBlock(ns *nameservice.NameService, number uint64, blk database.Block) block {
	return block{
		Number:       number,
		Hash:         blk.Hash(),
		PrevHash:     blk.Header.PrevBlockHash,
		TimeStamp:    blk.Header.TimeStamp,
		Nonce:        blk.Header.Nonce,
		Difficulty:   blk.Header.Difficulty,
		MerkleRoot:   blk.Header.MerkleRoot,
		Transactions: toTxs(ns, blk.Transactions()),
	}
}

// sendRequest is the document a wallet posts to submit a transaction.
// Amounts are main units, the signature and public key are hex encoded.
// Setting both to "node" asks the node to sign for its own account.
type sendRequest struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Value     string `json:"value" validate:"required"`
	Fee       string `json:"fee"`
	Nonce     string `json:"nonce" validate:"required,numeric"`
	Comment   string `json:"comment"`
	Signature string `json:"signature" validate:"required"`
	PublicKey string `json:"publicKey" validate:"required"`
}

type sendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	TxHash  string `json:"txHash"`
}

type mineResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	BlockHash string `json:"blockHash"`
	TxCount   int    `json:"txCount"`
	Rejected  []tx   `json:"rejected"`
}
