package database

import (
	"crypto/ecdsa"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/foxchain/blockchain/foundation/blockchain/signature"
)

// MaxCommentLength is the largest comment in bytes a transaction can carry.
const MaxCommentLength = 255

// TxStatus represents where a transaction is in its life.
type TxStatus uint8

// Set of statuses a transaction can have.
const (
	TxPending TxStatus = iota
	TxAccepted
	TxRejected
)

// String implements the fmt.Stringer interface.
func (s TxStatus) String() string {
	switch s {
	case TxPending:
		return "pending"
	case TxAccepted:
		return "accepted"
	case TxRejected:
		return "rejected"
	}
	return "unknown(" + strconv.Itoa(int(s)) + ")"
}

// =============================================================================

// Tx is the transactional information between two parties.
type Tx struct {
	Sender    AccountID `json:"sender"`    // Account sending the value.
	Recipient AccountID `json:"recipient"` // Account receiving the value.
	Value     uint64    `json:"value"`     // Atomic units received by the recipient.
	Fee       uint64    `json:"fee"`       // Atomic units paid to the miner.
	Nonce     uint64    `json:"nonce"`     // Must match the sender's account nonce.
	Comment   string    `json:"comment"`   // Free text up to MaxCommentLength bytes.
}

// NewTx constructs a new transaction.
func NewTx(sender AccountID, recipient AccountID, value uint64, fee uint64, nonce uint64, comment string) (Tx, error) {
	if len(comment) > MaxCommentLength {
		return Tx{}, fmt.Errorf("comment is %d bytes, max %d", len(comment), MaxCommentLength)
	}

	tx := Tx{
		Sender:    sender,
		Recipient: recipient,
		Value:     value,
		Fee:       fee,
		Nonce:     nonce,
		Comment:   comment,
	}

	return tx, nil
}

// Payload returns the canonical bytes that are signed for a transaction:
// sender|recipient|value|fee|nonce|comment.
func (tx Tx) Payload() []byte {
	var b strings.Builder
	b.WriteString(string(tx.Sender))
	b.WriteByte('|')
	b.WriteString(string(tx.Recipient))
	b.WriteByte('|')
	b.WriteString(strconv.FormatUint(tx.Value, 10))
	b.WriteByte('|')
	b.WriteString(strconv.FormatUint(tx.Fee, 10))
	b.WriteByte('|')
	b.WriteString(strconv.FormatUint(tx.Nonce, 10))
	b.WriteByte('|')
	b.WriteString(tx.Comment)

	return []byte(b.String())
}

// Sign uses the specified private key to sign the transaction.
func (tx Tx) Sign(privateKey *ecdsa.PrivateKey) (SignedTx, error) {
	sig, err := signature.Sign(tx.Payload(), privateKey)
	if err != nil {
		return SignedTx{}, err
	}

	signedTx := SignedTx{
		Tx:        tx,
		Signature: sig,
	}

	return signedTx, nil
}

// =============================================================================

// SignedTx is a signed version of the transaction. This is how clients like
// a wallet provide transactions for inclusion into the blockchain.
type SignedTx struct {
	Tx
	Signature []byte `json:"signature"`
}

// NewSignedTx constructs a signed transaction from a signature produced
// elsewhere.
func NewSignedTx(tx Tx, sig []byte) SignedTx {
	return SignedTx{
		Tx:        tx,
		Signature: append([]byte(nil), sig...),
	}
}

// Verify checks the signature against the canonical payload using the
// specified public key. Any failure is reported as false.
func (tx SignedTx) Verify(publicKey []byte) bool {
	return signature.Verify(tx.Payload(), tx.Signature, publicKey)
}

// SignatureString returns the signature as a hex string.
func (tx SignedTx) SignatureString() string {
	return hexutil.Encode(tx.Signature)
}

// String implements the fmt.Stringer interface for logging.
func (tx SignedTx) String() string {
	return fmt.Sprintf("%s:%d", tx.Sender, tx.Nonce)
}

// =============================================================================

// BlockTx represents the transaction as it's recorded inside a block. This
// includes the time it was received and its status.
type BlockTx struct {
	SignedTx
	TimeStamp uint64   `json:"timestamp"` // Milliseconds when the transaction was received.
	Status    TxStatus `json:"status"`
}

// NewBlockTx constructs a new pending block transaction.
func NewBlockTx(signedTx SignedTx) BlockTx {
	return BlockTx{
		SignedTx:  signedTx,
		TimeStamp: uint64(time.Now().UTC().UnixMilli()),
		Status:    TxPending,
	}
}

// Hash implements the merkle Hashable interface for providing a hash
// of a block transaction. It covers the canonical payload followed by the
// raw signature bytes.
func (tx BlockTx) Hash() string {
	payload := tx.Payload()

	data := make([]byte, 0, len(payload)+len(tx.Signature))
	data = append(data, payload...)
	data = append(data, tx.Signature...)

	return signature.Hash(data)
}

// Equals implements the merkle Hashable interface for providing an equality
// check between two block transactions.
func (tx BlockTx) Equals(otherTx BlockTx) bool {
	return tx.Hash() == otherTx.Hash()
}

// Touches reports whether the account sends or receives this transaction.
func (tx BlockTx) Touches(accountID AccountID) bool {
	return tx.Sender == accountID || tx.Recipient == accountID
}
