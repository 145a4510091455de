package database

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/foxchain/blockchain/foundation/blockchain/signature"
)

// Account represents information stored in the database for an individual account.
type Account struct {
	AccountID AccountID `json:"address"`
	Balance   uint64    `json:"balance"`
	Nonce     uint64    `json:"nonce"`
}

// newAccount constructs a new account value for use.
func newAccount(accountID AccountID) Account {
	return Account{
		AccountID: accountID,
	}
}

// AddBalance applies a signed change to the balance. The balance can never
// go below zero or overflow; the account is left unchanged when it would.
func (a *Account) AddBalance(delta int64) error {
	if delta < 0 {
		return a.Debit(uint64(-(delta + 1)) + 1)
	}

	return a.Credit(uint64(delta))
}

// Credit adds the amount to the balance.
func (a *Account) Credit(amount uint64) error {
	if a.Balance > math.MaxUint64-amount {
		return fmt.Errorf("balance overflow, bal %d, credit %d", a.Balance, amount)
	}

	a.Balance += amount
	return nil
}

// Debit removes the amount from the balance.
func (a *Account) Debit(amount uint64) error {
	if !a.CanSpend(amount) {
		return fmt.Errorf("insufficient funds, bal %d, needed %d", a.Balance, amount)
	}

	a.Balance -= amount
	return nil
}

// CanSpend reports whether the balance covers the amount.
func (a Account) CanSpend(amount uint64) bool {
	return a.Balance >= amount
}

// IncrementNonce moves the nonce forward by one after the account sends
// a transaction that is mined.
func (a *Account) IncrementNonce() {
	a.Nonce++
}

// =============================================================================

// AccountID represents an account id that is used to sign transactions and is
// associated with transactions on the blockchain. It is derived from the
// public key of the account.
type AccountID string

// ToAccountID converts a string to an account and validates the
// string is formatted correctly.
func ToAccountID(addr string) (AccountID, error) {
	a := AccountID(addr)
	if !a.IsAccountID() {
		return "", errors.New("invalid account format")
	}

	return a, nil
}

// PublicKeyToAccountID converts the public key bytes to an account value.
func PublicKeyToAccountID(publicKey []byte) AccountID {
	return AccountID(signature.DeriveAddress(publicKey))
}

// IsAccountID verifies whether the underlying data represents a valid
// derived account. The first five characters carry one 'o' and one 'x'
// along with at least one 'f'. Everything else is lowercase hex.
func (a AccountID) IsAccountID() bool {
	const addressLength = 64
	const markLength = 5

	if len(a) != addressLength {
		return false
	}

	head := string(a[:markLength])
	if strings.Count(head, "o") != 1 || strings.Count(head, "x") != 1 || !strings.Contains(head, "f") {
		return false
	}

	for i, c := range []byte(a) {
		if i < markLength && (c == 'o' || c == 'x') {
			continue
		}
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// Equals compares two accounts ignoring case.
func (a AccountID) Equals(other AccountID) bool {
	return strings.EqualFold(string(a), string(other))
}

// =============================================================================

// isHexCharacter returns bool of c being a valid lowercase hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f')
}

// =============================================================================

// byAccount orders accounts by address for SortedAccounts.
type byAccount []Account

func (ba byAccount) Len() int           { return len(ba) }
func (ba byAccount) Less(i, j int) bool { return ba[i].AccountID < ba[j].AccountID }
func (ba byAccount) Swap(i, j int)      { ba[i], ba[j] = ba[j], ba[i] }
