package merkle_test

import (
	"testing"

	"github.com/foxchain/blockchain/foundation/blockchain/merkle"
	"github.com/foxchain/blockchain/foundation/blockchain/signature"
)

// Data uses the sha256 hex hashing for the merkle tree.
type Data struct {
	x string
}

// Hash hashes the value.
func (d Data) Hash() string {
	return signature.Hash([]byte(d.x))
}

// Equals tests for equality of two piece of data.
func (d Data) Equals(other Data) bool {
	return d.x == other.x
}

func h(x string) string {
	return signature.Hash([]byte(x))
}

func pair(l, r string) string {
	return signature.HashPair(l, r)
}

// =============================================================================

func Test_MerkleRoot(t *testing.T) {
	for _, tst := range table {
		tree, err := merkle.NewTree(tst.data)
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tst.testCaseId, err)
		}
		if tree.MerkleRoot != tst.expectedHash {
			t.Errorf("[case:%d] error: expected hash equal to %s got %s", tst.testCaseId, tst.expectedHash, tree.MerkleRoot)
		}
	}
}

func Test_NewTreeWithHashingStrategy(t *testing.T) {
	strategy := func(l, r string) string {
		return l + r
	}

	tree, err := merkle.NewTree([]Data{{x: "a"}, {x: "b"}, {x: "c"}}, merkle.WithHashStrategy[Data](strategy))
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}

	exp := h("a") + h("b") + h("c") + h("c")
	if tree.MerkleRoot != exp {
		t.Errorf("error: expected hash equal to %s got %s", exp, tree.MerkleRoot)
	}
}

func Test_VerifyTree(t *testing.T) {
	for _, tst := range table {
		tree, err := merkle.NewTree(tst.data)
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tst.testCaseId, err)
		}
		if err := tree.Verify(); err != nil {
			t.Errorf("[case:%d] error: expected tree to be valid: %v", tst.testCaseId, err)
		}

		tree.MerkleRoot = "1"
		if err := tree.Verify(); err == nil {
			t.Errorf("[case:%d] error: expected tree to be invalid", tst.testCaseId)
		}
	}
}

func Test_VerifyData(t *testing.T) {
	for _, tst := range table {
		tree, err := merkle.NewTree(tst.data)
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tst.testCaseId, err)
		}

		for _, d := range tst.data {
			if err := tree.VerifyData(d); err != nil {
				t.Errorf("[case:%d] error: expected valid content: %v", tst.testCaseId, err)
			}
		}

		if err := tree.VerifyData(tst.notInContents); err == nil {
			t.Errorf("[case:%d] error: expected invalid content", tst.testCaseId)
		}

		if len(tst.data) > 0 {
			tree.MerkleRoot = "1"
			if err := tree.VerifyData(tst.data[0]); err == nil {
				t.Errorf("[case:%d] error: expected invalid content", tst.testCaseId)
			}
		}
	}
}

func Test_Proof(t *testing.T) {
	for _, tst := range table {
		tree, err := merkle.NewTree(tst.data)
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tst.testCaseId, err)
		}

		for _, d := range tst.data {
			proof, order, err := tree.Proof(d)
			if err != nil {
				t.Fatalf("[case:%d] error: unexpected error: %v", tst.testCaseId, err)
			}

			hash := d.Hash()
			for k := range proof {
				if order[k] == 0 {
					hash = pair(proof[k], hash)
				} else {
					hash = pair(hash, proof[k])
				}
			}

			if hash != tree.MerkleRoot {
				t.Errorf("[case:%d] error: expected hash equal to %s got %s", tst.testCaseId, tree.MerkleRoot, hash)
			}
		}

		if _, _, err := tree.Proof(tst.notInContents); err == nil {
			t.Errorf("[case:%d] error: expected proof to fail", tst.testCaseId)
		}
	}
}

func Test_Values(t *testing.T) {
	for _, tst := range table {
		tree, err := merkle.NewTree(tst.data)
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tst.testCaseId, err)
		}

		values := tree.Values()
		if len(values) != len(tst.data) {
			t.Fatalf("[case:%d] error: expected %d values got %d", tst.testCaseId, len(tst.data), len(values))
		}
		for i := range values {
			if !values[i].Equals(tst.data[i]) {
				t.Errorf("[case:%d] error: expected value %d to be %s", tst.testCaseId, i, tst.data[i].x)
			}
		}
	}
}

// =============================================================================

var table = []struct {
	testCaseId    int
	data          []Data
	expectedHash  string
	notInContents Data
}{
	{
		testCaseId:    1,
		data:          []Data{},
		notInContents: Data{x: "NotInTestTable"},
		expectedHash:  "0",
	},
	{
		testCaseId:    2,
		data:          []Data{{x: "Hello"}},
		notInContents: Data{x: "NotInTestTable"},
		expectedHash:  h("Hello"),
	},
	{
		testCaseId:    3,
		data:          []Data{{x: "Hello"}, {x: "Hi"}},
		notInContents: Data{x: "NotInTestTable"},
		expectedHash:  pair(h("Hello"), h("Hi")),
	},
	{
		testCaseId:    4,
		data:          []Data{{x: "Hello"}, {x: "Hi"}, {x: "Hey"}},
		notInContents: Data{x: "NotInTestTable"},
		expectedHash:  pair(pair(h("Hello"), h("Hi")), pair(h("Hey"), h("Hey"))),
	},
	{
		testCaseId:    5,
		data:          []Data{{x: "Hello"}, {x: "Hi"}, {x: "Hey"}, {x: "Hola"}},
		notInContents: Data{x: "NotInTestTable"},
		expectedHash:  pair(pair(h("Hello"), h("Hi")), pair(h("Hey"), h("Hola"))),
	},
	{
		testCaseId:    6,
		data:          []Data{{x: "1"}, {x: "2"}, {x: "3"}, {x: "4"}, {x: "5"}},
		notInContents: Data{x: "NotInTestTable"},
		expectedHash: pair(
			pair(pair(h("1"), h("2")), pair(h("3"), h("4"))),
			pair(pair(h("5"), h("5")), pair(h("5"), h("5"))),
		),
	},
}
