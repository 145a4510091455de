package signature_test

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/foxchain/blockchain/foundation/blockchain/signature"
)

const (
	pkHexKey   = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	pkHexOther = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
)

// =============================================================================

func Test_Hash(t *testing.T) {
	tt := []struct {
		data string
		hash string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}

	for _, tst := range tt {
		h := signature.Hash([]byte(tst.data))
		if h != tst.hash {
			t.Logf("got: %s", h)
			t.Logf("exp: %s", tst.hash)
			t.Fatalf("Should get back the right hash for %q.", tst.data)
		}

		if h2 := signature.Hash([]byte(tst.data)); h2 != h {
			t.Fatalf("Should get back the same hash twice.")
		}
	}

	if signature.HashPair("ab", "c") != signature.Hash([]byte("abc")) {
		t.Fatalf("Should hash a pair as the concatenated text.")
	}
}

func Test_DeriveAddress(t *testing.T) {
	tt := []struct {
		key  string
		addr string
	}{
		{"", "eofxc44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "ofx816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}

	for _, tst := range tt {
		addr := signature.DeriveAddress([]byte(tst.key))
		if addr != tst.addr {
			t.Logf("got: %s", addr)
			t.Logf("exp: %s", tst.addr)
			t.Fatalf("Should derive the right address for %q.", tst.key)
		}
	}
}

func Test_DeriveAddressMarks(t *testing.T) {
	for i := 0; i < 50; i++ {
		pk, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("Should be able to generate a private key: %s", err)
		}

		pub := signature.PublicKeyBytes(&pk.PublicKey)
		addr := signature.DeriveAddress(pub)

		if addr != signature.DeriveAddress(pub) {
			t.Fatalf("Should derive the same address twice.")
		}

		if len(addr) != 64 {
			t.Fatalf("Should get a 64 character address, got %d.", len(addr))
		}

		hash := signature.Hash(pub)
		if addr[5:] != hash[5:] {
			t.Fatalf("Should only change the first five characters.")
		}

		for _, mark := range "fox" {
			idx := strings.IndexRune(addr[:5], mark)
			if idx == -1 {
				t.Fatalf("Should find %q in the first five characters of %s.", mark, addr)
			}
		}

		if strings.Count(addr[:5], "o") != 1 || strings.Count(addr[:5], "x") != 1 {
			t.Fatalf("Should find exactly one 'o' and one 'x' in %s.", addr[:5])
		}
	}
}

func Test_Signing(t *testing.T) {
	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}
	pub := signature.PublicKeyBytes(&pk.PublicKey)

	payload := []byte("a|b|100|50|0|hello")

	sig, err := signature.Sign(payload, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	if !signature.Verify(payload, sig, pub) {
		t.Fatalf("Should be able to verify the signature.")
	}

	if signature.Verify([]byte("a|b|101|50|0|hello"), sig, pub) {
		t.Fatalf("Should not verify a signature over different data.")
	}

	other, err := crypto.HexToECDSA(pkHexOther)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}
	if signature.Verify(payload, sig, signature.PublicKeyBytes(&other.PublicKey)) {
		t.Fatalf("Should not verify a signature with the wrong public key.")
	}

	if signature.Verify(payload, []byte("garbage"), pub) {
		t.Fatalf("Should not verify a malformed signature.")
	}

	if signature.Verify(payload, sig, []byte{1, 2, 3}) {
		t.Fatalf("Should not verify with a malformed public key.")
	}

	if signature.Verify(payload, nil, nil) {
		t.Fatalf("Should not verify with nothing.")
	}
}

func Test_IsHashSolved(t *testing.T) {
	tt := []struct {
		difficulty uint
		hash       string
		solved     bool
	}{
		{4, "0000ab", true},
		{4, "000ab0", false},
		{0, "abcd", true},
		{4, "000", false},
	}

	for _, tst := range tt {
		if got := signature.IsHashSolved(tst.difficulty, tst.hash); got != tst.solved {
			t.Fatalf("Should get %t for difficulty %d and hash %s.", tst.solved, tst.difficulty, tst.hash)
		}
	}
}
