package zkp

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	bn254mimc "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"golang.org/x/crypto/sha3"
)

// HashToField maps an arbitrary string into the scalar field as
// keccak256(s) mod r.
func HashToField(s string) *big.Int {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(s))

	return new(big.Int).Mod(new(big.Int).SetBytes(h.Sum(nil)), FieldModulus())
}

// MiMC hashes field elements with the BN254 MiMC sponge used inside the
// membership circuit. Inputs are reduced mod r first.
func MiMC(elements ...*big.Int) (*big.Int, error) {
	h := bn254mimc.NewMiMC()
	for _, e := range elements {
		var fe fr.Element
		fe.SetBigInt(e)
		b := fe.Bytes()
		if _, err := h.Write(b[:]); err != nil {
			return nil, fmt.Errorf("mimc write: %w", err)
		}
	}

	return new(big.Int).SetBytes(h.Sum(nil)), nil
}

func mustMiMC(elements ...*big.Int) *big.Int {
	out, err := MiMC(elements...)
	if err != nil {
		// inputs are reduced above, so the sponge never rejects them
		panic(err)
	}
	return out
}

// ToBytes32 encodes a field element as 32 big-endian bytes.
func ToBytes32(v *big.Int) [32]byte {
	var fe fr.Element
	fe.SetBigInt(v)
	return fe.Bytes()
}

// CredentialLeaf is the tree leaf committed for a user secret.
func CredentialLeaf(secret *big.Int) *big.Int {
	return mustMiMC(secret)
}

// Nullifier is MiMC(secret, appId), scoped to an application.
func Nullifier(secret, appID *big.Int) *big.Int {
	return mustMiMC(secret, appID)
}

// SignalHash is MiMC(appId, policyId).
func SignalHash(appID, policyID *big.Int) *big.Int {
	return mustMiMC(appID, policyID)
}
