// Package numbering generates the human-facing identifiers printed on
// policy schedules and claim correspondence. Candidates are random, so
// uniqueness is enforced by the store; callers retry on collision.
package numbering

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// PolicyPrefix starts every policy number.
	PolicyPrefix = "POL"
	// ClaimPrefix starts every claim number.
	ClaimPrefix = "CLM"

	digits = 8
)

// Generator produces candidate numbers for policies and claims. A
// candidate is not guaranteed unique; the store's unique constraint is
// the arbiter and callers are expected to request a fresh candidate
// when an insert collides.
type Generator interface {
	PolicyNumber() string
	ClaimNumber() string
}

type randomGenerator struct{}

// NewGenerator returns a Generator backed by crypto/rand.
func NewGenerator() Generator {
	return &randomGenerator{}
}

func (g *randomGenerator) PolicyNumber() string {
	return PolicyPrefix + "-" + randomDigits()
}

func (g *randomGenerator) ClaimNumber() string {
	return ClaimPrefix + "-" + randomDigits()
}

var digitCeiling = new(big.Int).Exp(big.NewInt(10), big.NewInt(digits), nil)

func randomDigits() string {
	n, err := rand.Int(rand.Reader, digitCeiling)
	if err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken, at which point nothing else in the process is safe
		// either.
		panic(fmt.Sprintf("numbering: read random source: %v", err))
	}
	return fmt.Sprintf("%0*d", digits, n)
}
