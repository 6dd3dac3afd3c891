package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var txnIDSpace = big.NewInt(1_000_000)

// NewTxnID returns a random 6-digit numeric transaction id. Ids are not
// unique by construction; writers detect collisions and retry.
func NewTxnID() (string, error) {
	n, err := rand.Int(rand.Reader, txnIDSpace)
	if err != nil {
		return "", fmt.Errorf("generating txn id: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
