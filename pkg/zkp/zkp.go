package zkp

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
)

const (
	ElipticalCurveID = ecc.BN254

	// PublicInputCount is the number of public circuit inputs:
	// root, signal hash, nullifier.
	PublicInputCount = 3
)

// FieldModulus returns a copy of the BN254 scalar field modulus r.
func FieldModulus() *big.Int {
	return ElipticalCurveID.ScalarField()
}

// IsCanonical reports whether b, read as a big-endian integer, is a
// reduced element of the scalar field.
func IsCanonical(b []byte) bool {
	return new(big.Int).SetBytes(b).Cmp(FieldModulus()) < 0
}
