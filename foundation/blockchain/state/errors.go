package state

import (
	"errors"
	"fmt"
)

// TxErrorKind identifies the admission rule a transaction failed.
type TxErrorKind int

// Set of rules a transaction is checked against, in the order they
// are checked.
const (
	MissingField TxErrorKind = iota + 1
	AddressMismatch
	BadSignature
	NonceMismatch
	SelfTransfer
	InsufficientFunds
	BelowMinimumValue
	CommentTooLong
	InvalidAddress
)

var kindNames = map[TxErrorKind]string{
	MissingField:      "missing field",
	AddressMismatch:   "address mismatch",
	BadSignature:      "bad signature",
	NonceMismatch:     "nonce mismatch",
	SelfTransfer:      "self transfer",
	InsufficientFunds: "insufficient funds",
	BelowMinimumValue: "below minimum value",
	CommentTooLong:    "comment too long",
	InvalidAddress:    "invalid address",
}

// String implements the fmt.Stringer interface.
func (k TxErrorKind) String() string {
	if name, exists := kindNames[k]; exists {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// TxError is returned when a transaction is rejected.
type TxError struct {
	Kind TxErrorKind
	Msg  string
}

// newTxError constructs a rejection of the specified kind.
func newTxError(kind TxErrorKind, format string, args ...any) *TxError {
	return &TxError{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (te *TxError) Error() string {
	return te.Kind.String() + ": " + te.Msg
}

// IsTxError checks if an error of type TxError exists.
func IsTxError(err error) bool {
	var te *TxError
	return errors.As(err, &te)
}

// GetTxError returns a copy of the TxError pointer.
func GetTxError(err error) *TxError {
	var te *TxError
	if !errors.As(err, &te) {
		return nil
	}
	return te
}
