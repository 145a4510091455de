// Package signature provides helper functions for handling the blockchain
// hashing, signature, and address needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash is the previous hash value used by the genesis block and the
// merkle root of a block with no transactions.
const ZeroHash string = "0"

// addressMarks are the characters stamped into every derived address.
var addressMarks = [3]byte{'f', 'o', 'x'}

// =============================================================================

// Hash returns the lowercase hex encoded SHA-256 of the data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashPair hashes the concatenation of two hex encoded hashes. The strings
// are hashed as text, not decoded back into bytes.
func HashPair(left string, right string) string {
	return Hash([]byte(left + right))
}

// PublicKeyBytes returns the uncompressed encoding of the public key. These
// are the bytes an address is derived from.
func PublicKeyBytes(pk *ecdsa.PublicKey) []byte {
	return crypto.FromECDSAPub(pk)
}

// DeriveAddress produces the address for the specified public key bytes.
// The address is the hex encoded SHA-256 of the key with the characters
// 'f', 'o' and 'x' written into three distinct positions within the first
// five characters. The positions are chosen by the first three hash bytes.
func DeriveAddress(publicKey []byte) string {
	hash := sha256.Sum256(publicKey)
	addr := []byte(hex.EncodeToString(hash[:]))

	posF := int(hash[0]) % 5

	posO := int(hash[1]) % 5
	for posO == posF {
		posO = (posO + 1) % 5
	}

	posX := int(hash[2]) % 5
	for posX == posF || posX == posO {
		posX = (posX + 1) % 5
	}

	addr[posF] = addressMarks[0]
	addr[posO] = addressMarks[1]
	addr[posX] = addressMarks[2]

	return string(addr)
}

// Sign uses the specified private key to sign the payload. The SHA-256 of
// the payload is signed and the 65 byte [R|S|V] signature is returned.
func Sign(payload []byte, privateKey *ecdsa.PrivateKey) ([]byte, error) {
	if privateKey == nil {
		return nil, errors.New("missing private key")
	}

	digest := sha256.Sum256(payload)

	sig, err := crypto.Sign(digest[:], privateKey)
	if err != nil {
		return nil, err
	}

	// Check the public key extracted from the data and signature.
	publicKey, err := crypto.SigToPub(digest[:], sig)
	if err != nil {
		return nil, err
	}
	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), digest[:], sig[:crypto.RecoveryIDOffset]) {
		return nil, errors.New("invalid signature")
	}

	return sig, nil
}

// Verify checks the signature was produced over the payload by the private
// key matching the public key bytes. Any failure, including malformed keys
// or signatures, returns false.
func Verify(payload []byte, sig []byte, publicKey []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	switch len(sig) {
	case crypto.SignatureLength:
		sig = sig[:crypto.RecoveryIDOffset]
	case crypto.SignatureLength - 1:
	default:
		return false
	}

	if _, err := crypto.UnmarshalPubkey(publicKey); err != nil {
		return false
	}

	digest := sha256.Sum256(payload)
	return crypto.VerifySignature(publicKey, digest[:], sig)
}

// IsHashSolved checks the hex encoded hash starts with difficulty
// number of '0' characters.
func IsHashSolved(difficulty uint, hash string) bool {
	if uint(len(hash)) < difficulty {
		return false
	}

	for i := uint(0); i < difficulty; i++ {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}
