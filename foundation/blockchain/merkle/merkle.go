// Package merkle provides an implementation of a merkle tree for validation
// support for the blockchain. Hashes are carried as lowercase hex strings and
// a parent is the hash of its children's hex strings concatenated as text.
package merkle

import (
	"errors"

	"github.com/foxchain/blockchain/foundation/blockchain/signature"
)

// EmptyRoot is the root of a tree constructed with no values.
const EmptyRoot = signature.ZeroHash

// ErrNotInTree is returned when the data asked about isn't a value of
// the tree.
var ErrNotInTree = errors.New("data is not in the tree")

// Hashable represents the behavior concrete data must exhibit to be used in
// the merkle tree.
type Hashable[T any] interface {
	Hash() string
	Equals(other T) bool
}

// =============================================================================

// Tree represents a merkle tree that uses data of some type T that exhibits the
// behavior defined by the Hashable constraint. Level 0 holds the leaf hashes
// and the last level holds only the root.
type Tree[T Hashable[T]] struct {
	MerkleRoot string

	values   []T
	levels   [][]string
	hashPair func(left string, right string) string
}

// WithHashStrategy is used to change the default pair hashing of using
// signature.HashPair when constructing a new tree.
func WithHashStrategy[T Hashable[T]](hashPair func(left string, right string) string) func(t *Tree[T]) {
	return func(t *Tree[T]) {
		t.hashPair = hashPair
	}
}

// NewTree constructs a new merkle tree over the values in their order. A
// level with an odd count pairs its last hash with itself and a single
// value is its own root. No values produce the EmptyRoot.
func NewTree[T Hashable[T]](values []T, options ...func(t *Tree[T])) (*Tree[T], error) {
	t := Tree[T]{
		MerkleRoot: EmptyRoot,
		values:     append([]T(nil), values...),
		hashPair:   signature.HashPair,
	}

	for _, option := range options {
		option(&t)
	}

	if len(values) == 0 {
		return &t, nil
	}

	leafs, err := leafHashes(values)
	if err != nil {
		return nil, err
	}

	t.levels = t.build(leafs)
	t.MerkleRoot = t.levels[len(t.levels)-1][0]

	return &t, nil
}

// Len returns the number of values in the tree.
func (t *Tree[T]) Len() int {
	return len(t.values)
}

// Values returns a copy of the values stored in the tree in their
// original order.
func (t *Tree[T]) Values() []T {
	return append(make([]T, 0, len(t.values)), t.values...)
}

// Proof returns the set of hashes and the order of concatenating those
// hashes for proving a value is in the tree. An order of 0 means the proof
// hash comes first, 1 means it comes second.
//
//	hash := value.Hash()
//	for i := range proof {
//	    if order[i] == 0 {
//	        hash = HashPair(proof[i], hash)
//	    } else {
//	        hash = HashPair(hash, proof[i])
//	    }
//	}
//
// The calculated hash should match the merkle root.
func (t *Tree[T]) Proof(data T) ([]string, []int64, error) {
	idx := t.index(data)
	if idx < 0 {
		return nil, nil, ErrNotInTree
	}

	var proof []string
	var order []int64

	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := idx ^ 1
		if sibling == len(level) {
			sibling = idx
		}

		proof = append(proof, level[sibling])
		if idx%2 == 0 {
			order = append(order, 1)
		} else {
			order = append(order, 0)
		}

		idx /= 2
	}

	return proof, order, nil
}

// Verify recalculates the tree from the values it holds and returns an
// error if the result doesn't match the merkle root.
func (t *Tree[T]) Verify() error {
	if len(t.values) == 0 {
		if t.MerkleRoot != EmptyRoot {
			return errors.New("root hash invalid")
		}
		return nil
	}

	leafs, err := leafHashes(t.values)
	if err != nil {
		return err
	}

	levels := t.build(leafs)
	if levels[len(levels)-1][0] != t.MerkleRoot {
		return errors.New("root hash invalid")
	}

	return nil
}

// VerifyData indicates whether a given piece of data is in the tree and if
// the hashes on its path lead to the merkle root.
func (t *Tree[T]) VerifyData(data T) error {
	proof, order, err := t.Proof(data)
	if err != nil {
		return err
	}

	hash := data.Hash()
	for i := range proof {
		switch order[i] {
		case 0:
			hash = t.hashPair(proof[i], hash)
		default:
			hash = t.hashPair(hash, proof[i])
		}
	}

	if hash != t.MerkleRoot {
		return errors.New("merkle root is not equivalent to the merkle root calculated on the critical path")
	}

	return nil
}

// =============================================================================

// build calculates every level of the tree from the leaf hashes up.
func (t *Tree[T]) build(leafs []string) [][]string {
	levels := [][]string{leafs}

	for level := leafs; len(level) > 1; {
		next := make([]string, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			right := i + 1
			if right == len(level) {
				right = i
			}
			next = append(next, t.hashPair(level[i], level[right]))
		}

		levels = append(levels, next)
		level = next
	}

	return levels
}

// index returns the position of the data in the tree or -1.
func (t *Tree[T]) index(data T) int {
	for i, value := range t.values {
		if value.Equals(data) {
			return i
		}
	}
	return -1
}

func leafHashes[T Hashable[T]](values []T) ([]string, error) {
	hashes := make([]string, len(values))
	for i, value := range values {
		hash := value.Hash()
		if hash == "" {
			return nil, errors.New("value produced an empty hash")
		}
		hashes[i] = hash
	}
	return hashes, nil
}
