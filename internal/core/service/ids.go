package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/venuehub/platform/internal/core/domain"
)

const idDigits = 10

var (
	idFloor = big.NewInt(1_000_000_000)
	idSpan  = big.NewInt(9_000_000_000)
)

// IDGenerator returns a new entity identifier.
type IDGenerator func() (string, error)

// NewNumericID returns a random 10-digit numeric identifier.
func NewNumericID() (string, error) {
	n, err := rand.Int(rand.Reader, idSpan)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return n.Add(n, idFloor).String(), nil
}

// checkID fails with ErrInvalidState unless id is exactly 10 digits.
func checkID(id string) error {
	if len(id) != idDigits {
		return fmt.Errorf("%w: generated id %q is not %d digits", domain.ErrInvalidState, id, idDigits)
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: generated id %q is not numeric", domain.ErrInvalidState, id)
		}
	}
	return nil
}

// nextID draws an id from gen and checks its shape.
func nextID(gen IDGenerator) (string, error) {
	id, err := gen()
	if err != nil {
		return "", err
	}
	if err := checkID(id); err != nil {
		return "", err
	}
	return id, nil
}
