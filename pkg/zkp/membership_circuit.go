package zkp

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// TreeDepth bounds a credential set at 2^TreeDepth members.
const TreeDepth = 8

// MembershipCircuit proves that MiMC(Secret) is a leaf of the tree with
// root Root, that Nullifier = MiMC(Secret, AppID) and that
// SignalHash = MiMC(AppID, PolicyID).
//
// Public field order is load-bearing: it fixes the public witness as
// [Root, SignalHash, Nullifier].
type MembershipCircuit struct {
	Root       frontend.Variable `gnark:",public"`
	SignalHash frontend.Variable `gnark:",public"`
	Nullifier  frontend.Variable `gnark:",public"`

	Secret   frontend.Variable            `gnark:",secret"`
	AppID    frontend.Variable            `gnark:",secret"`
	PolicyID frontend.Variable            `gnark:",secret"`
	Siblings [TreeDepth]frontend.Variable `gnark:",secret"`
	PathBits [TreeDepth]frontend.Variable `gnark:",secret"`
}

func (circuit *MembershipCircuit) Define(api frontend.API) error {
	hasher, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	hash := func(values ...frontend.Variable) frontend.Variable {
		hasher.Reset()
		hasher.Write(values...)
		return hasher.Sum()
	}

	node := hash(circuit.Secret)
	for i := 0; i < TreeDepth; i++ {
		bit := circuit.PathBits[i]
		api.AssertIsBoolean(bit)

		left := api.Select(bit, circuit.Siblings[i], node)
		right := api.Select(bit, node, circuit.Siblings[i])
		node = hash(left, right)
	}

	api.AssertIsEqual(node, circuit.Root)
	api.AssertIsEqual(hash(circuit.Secret, circuit.AppID), circuit.Nullifier)
	api.AssertIsEqual(hash(circuit.AppID, circuit.PolicyID), circuit.SignalHash)

	return nil
}
