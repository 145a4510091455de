package database

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/foxchain/blockchain/foundation/blockchain/merkle"
	"github.com/foxchain/blockchain/foundation/blockchain/signature"
)

// ErrNonceExhausted is returned when every block nonce was tried without
// finding a solved hash.
var ErrNonceExhausted = errors.New("block nonce space exhausted")

// =============================================================================

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain.
	TimeStamp     uint64 `json:"timestamp"`       // Milliseconds when the block was constructed.
	Nonce         uint32 `json:"nonce"`           // Value identified to solve the hash solution.
	Difficulty    uint   `json:"difficulty"`      // Number of 0's needed to solve the hash solution.
	MerkleRoot    string `json:"merkle_root"`     // Represents the merkle tree root hash for the transactions in this block.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader
	Trans  *merkle.Tree[BlockTx]
}

// NewBlock constructs an unsealed block on top of the previous hash. The
// merkle root is fixed here and never recalculated while sealing.
func NewBlock(prevBlockHash string, trans []BlockTx) (Block, error) {
	tree, err := merkle.NewTree(trans)
	if err != nil {
		return Block{}, err
	}

	nb := Block{
		Header: BlockHeader{
			PrevBlockHash: prevBlockHash,
			TimeStamp:     uint64(time.Now().UTC().UnixMilli()),
			Nonce:         0,
			MerkleRoot:    tree.MerkleRoot,
		},
		Trans: tree,
	}

	return nb, nil
}

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	PrevBlockHash string
	PrevTimeStamp uint64
	Difficulty    uint
	Trans         []BlockTx
	EvHandler     func(v string, args ...any)
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle. The block timestamp is kept after
// the previous block's timestamp so the chain order survives a reload.
func POW(args POWArgs) (Block, error) {
	nb, err := NewBlock(args.PrevBlockHash, args.Trans)
	if err != nil {
		return Block{}, err
	}

	if nb.Header.TimeStamp <= args.PrevTimeStamp {
		nb.Header.TimeStamp = args.PrevTimeStamp + 1
	}

	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	if err := nb.Mine(args.Difficulty, ev); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// Mine does the work of finding the smallest nonce that produces a hash
// with difficulty leading '0' characters. Pointer semantics are being used
// since a nonce is being discovered. The search has no time limit.
func (b *Block) Mine(difficulty uint, ev func(v string, args ...any)) error {
	ev("database: Mine: MINING: started: difficulty[%d]: trans[%d]", difficulty, b.Trans.Len())
	defer ev("database: Mine: MINING: completed")

	b.Header.Difficulty = difficulty
	b.Header.Nonce = 0

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		// Hash the block and check if we have solved the puzzle.
		hash := b.Hash()
		if signature.IsHashSolved(difficulty, hash) {
			ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", b.Header.PrevBlockHash, hash, attempts)
			return nil
		}

		if b.Header.Nonce == math.MaxUint32 {
			return ErrNonceExhausted
		}
		b.Header.Nonce++
	}
}

// Hash returns the unique hash for the Block. It is the SHA-256 of the
// previous hash, timestamp, nonce and merkle root written as text.
func (b Block) Hash() string {
	data := b.Header.PrevBlockHash +
		strconv.FormatUint(b.Header.TimeStamp, 10) +
		strconv.FormatUint(uint64(b.Header.Nonce), 10) +
		b.Header.MerkleRoot

	return signature.Hash([]byte(data))
}

// Transactions returns a copy of the transactions in the block.
func (b Block) Transactions() []BlockTx {
	if b.Trans == nil {
		return []BlockTx{}
	}

	return b.Trans.Values()
}

// IsGenesis reports whether this is the first block of a chain.
func (b Block) IsGenesis() bool {
	return b.Header.PrevBlockHash == signature.ZeroHash
}

// ValidateBlock takes a block and validates it against the block that
// precedes it in the chain. Pass a zero Block to validate a genesis block.
func (b Block) ValidateBlock(previousBlock Block, evHandler func(v string, args ...any)) error {
	hash := b.Hash()

	evHandler("database: ValidateBlock: validate: blk[%s]: check: block hash has been solved", hash)

	if !signature.IsHashSolved(b.Header.Difficulty, hash) {
		return fmt.Errorf("%s invalid block hash", hash)
	}

	evHandler("database: ValidateBlock: validate: blk[%s]: check: parent hash does match parent block", hash)

	expPrev := signature.ZeroHash
	if previousBlock.Trans != nil {
		expPrev = previousBlock.Hash()
	}
	if b.Header.PrevBlockHash != expPrev {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", b.Header.PrevBlockHash, expPrev)
	}

	if previousBlock.Header.TimeStamp > 0 {
		evHandler("database: ValidateBlock: validate: blk[%s]: check: block's timestamp is not before parent block's timestamp", hash)

		if b.Header.TimeStamp < previousBlock.Header.TimeStamp {
			parentTime := time.UnixMilli(int64(previousBlock.Header.TimeStamp))
			blockTime := time.UnixMilli(int64(b.Header.TimeStamp))
			return fmt.Errorf("block timestamp is before parent block, parent %s, block %s", parentTime, blockTime)
		}
	}

	evHandler("database: ValidateBlock: validate: blk[%s]: check: merkle root does match transactions", hash)

	if b.Header.MerkleRoot != b.Trans.MerkleRoot {
		return fmt.Errorf("merkle root does not match transactions, got %s, exp %s", b.Trans.MerkleRoot, b.Header.MerkleRoot)
	}

	return nil
}
