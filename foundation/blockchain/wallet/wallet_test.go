package wallet_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/foxchain/blockchain/foundation/blockchain/database"
	"github.com/foxchain/blockchain/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestWalletFile(t *testing.T) {
	t.Log("Given the need to keep a signing identity in a file.")
	{
		path := filepath.Join(t.TempDir(), "blockchaindb_8080", "nodewallet.dat")

		w, err := wallet.LoadOrGenerate(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a wallet: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to generate a wallet.", success)

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to read the wallet file: %v", failed, err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 || lines[2] != string(w.Address()) {
			t.Fatalf("\t%s\tShould write three lines ending in the address.", failed)
		}
		t.Logf("\t%s\tShould write three lines ending in the address.", success)

		again, err := wallet.LoadOrGenerate(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the wallet: %v", failed, err)
		}
		if again.Address() != w.Address() {
			t.Logf("\t%s\tgot: %s", failed, again.Address())
			t.Logf("\t%s\texp: %s", failed, w.Address())
			t.Fatalf("\t%s\tShould load the same identity.", failed)
		}
		t.Logf("\t%s\tShould load the same identity.", success)

		if !w.Address().IsAccountID() {
			t.Fatalf("\t%s\tShould derive a valid address.", failed)
		}
		t.Logf("\t%s\tShould derive a valid address.", success)

		tampered := strings.Join([]string{lines[0], lines[1], strings.Repeat("0", 64)}, "\n")
		if err := os.WriteFile(path, []byte(tampered), 0600); err != nil {
			t.Fatalf("\t%s\tShould be able to rewrite the wallet file: %v", failed, err)
		}
		if _, err := wallet.Load(path); err == nil {
			t.Fatalf("\t%s\tShould reject a wallet whose address doesn't match.", failed)
		}
		t.Logf("\t%s\tShould reject a wallet whose address doesn't match.", success)
	}
}

func TestWalletSign(t *testing.T) {
	t.Log("Given the need to sign transactions with a wallet.")
	{
		pk, err := crypto.HexToECDSA("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the private key: %v", failed, err)
		}
		w := wallet.FromPrivateKey(pk)

		other, err := wallet.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a wallet: %v", failed, err)
		}

		tx, err := database.NewTx(w.Address(), other.Address(), 10, 50, 0, "")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a transaction: %v", failed, err)
		}

		signedTx, err := w.Sign(tx)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign: %v", failed, err)
		}

		if !signedTx.Verify(w.PublicKey()) {
			t.Fatalf("\t%s\tShould verify with the wallet public key.", failed)
		}
		if signedTx.Verify(other.PublicKey()) {
			t.Fatalf("\t%s\tShould not verify with another public key.", failed)
		}
		t.Logf("\t%s\tShould sign transactions that verify.", success)
	}
}
