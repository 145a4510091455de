// Package wallet manages a signing identity and the file it is kept in.
// The file holds three lines: the base64 private key, the base64 public
// key and the derived address.
package wallet

import (
	"bufio"
	"crypto/ecdsa"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/foxchain/blockchain/foundation/blockchain/database"
	"github.com/foxchain/blockchain/foundation/blockchain/signature"
)

// Wallet holds a private key and the values derived from it.
type Wallet struct {
	privateKey *ecdsa.PrivateKey
	publicKey  []byte
	address    database.AccountID
}

// New generates a wallet with a new random key.
func New() (Wallet, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return Wallet{}, fmt.Errorf("generating key: %w", err)
	}

	return FromPrivateKey(privateKey), nil
}

// FromPrivateKey constructs a wallet for an existing key.
func FromPrivateKey(privateKey *ecdsa.PrivateKey) Wallet {
	publicKey := signature.PublicKeyBytes(&privateKey.PublicKey)

	return Wallet{
		privateKey: privateKey,
		publicKey:  publicKey,
		address:    database.PublicKeyToAccountID(publicKey),
	}
}

// Load reads a wallet file. The public key and address in the file must
// match the private key.
func Load(path string) (Wallet, error) {
	f, err := os.Open(path)
	if err != nil {
		return Wallet{}, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() && len(lines) < 3 {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return Wallet{}, fmt.Errorf("reading wallet %q: %w", path, err)
	}

	if len(lines) != 3 {
		return Wallet{}, fmt.Errorf("wallet %q: expected 3 lines, got %d", path, len(lines))
	}

	privBytes, err := base64.StdEncoding.DecodeString(lines[0])
	if err != nil {
		return Wallet{}, fmt.Errorf("wallet %q: private key: %w", path, err)
	}

	privateKey, err := crypto.ToECDSA(privBytes)
	if err != nil {
		return Wallet{}, fmt.Errorf("wallet %q: private key: %w", path, err)
	}

	pubBytes, err := base64.StdEncoding.DecodeString(lines[1])
	if err != nil {
		return Wallet{}, fmt.Errorf("wallet %q: public key: %w", path, err)
	}

	w := FromPrivateKey(privateKey)

	if string(pubBytes) != string(w.publicKey) {
		return Wallet{}, fmt.Errorf("wallet %q: public key does not match private key", path)
	}

	if lines[2] != string(w.address) {
		return Wallet{}, fmt.Errorf("wallet %q: address does not match public key", path)
	}

	return w, nil
}

// Save writes the wallet to the file, creating the directory if needed.
func (w Wallet) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(base64.StdEncoding.EncodeToString(crypto.FromECDSA(w.privateKey)))
	b.WriteByte('\n')
	b.WriteString(base64.StdEncoding.EncodeToString(w.publicKey))
	b.WriteByte('\n')
	b.WriteString(string(w.address))
	b.WriteByte('\n')

	return os.WriteFile(path, []byte(b.String()), 0600)
}

// LoadOrGenerate loads the wallet from the file. When the file doesn't
// exist a new wallet is generated and saved there.
func LoadOrGenerate(path string) (Wallet, error) {
	w, err := Load(path)
	if err == nil {
		return w, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return Wallet{}, err
	}

	if w, err = New(); err != nil {
		return Wallet{}, err
	}

	if err := w.Save(path); err != nil {
		return Wallet{}, fmt.Errorf("saving wallet %q: %w", path, err)
	}

	return w, nil
}

// Address returns the address derived from the public key.
func (w Wallet) Address() database.AccountID {
	return w.address
}

// PublicKey returns a copy of the uncompressed public key bytes.
func (w Wallet) PublicKey() []byte {
	return append([]byte(nil), w.publicKey...)
}

// PrivateKey returns the private key.
func (w Wallet) PrivateKey() *ecdsa.PrivateKey {
	return w.privateKey
}

// Sign signs the transaction with the wallet's key.
func (w Wallet) Sign(tx database.Tx) (database.SignedTx, error) {
	if w.privateKey == nil {
		return database.SignedTx{}, errors.New("wallet has no private key")
	}

	return tx.Sign(w.privateKey)
}
