package zkp

import (
	"errors"
	"fmt"
	"math/big"
)

var ErrTreeFull = errors.New("credential tree is full")

// CredentialTree is the issuer-side commitment over user secrets: a fixed
// depth MiMC Merkle tree whose empty leaves are zero.
type CredentialTree struct {
	leaves []*big.Int
}

type MerklePath struct {
	Siblings [TreeDepth]*big.Int
	PathBits [TreeDepth]uint8
}

func NewCredentialTree() *CredentialTree {
	return &CredentialTree{}
}

func (ct *CredentialTree) Capacity() int {
	return 1 << TreeDepth
}

func (ct *CredentialTree) Len() int {
	return len(ct.leaves)
}

// Add commits secret as the next leaf and returns its index.
func (ct *CredentialTree) Add(secret *big.Int) (int, error) {
	if len(ct.leaves) >= ct.Capacity() {
		return 0, ErrTreeFull
	}

	ct.leaves = append(ct.leaves, CredentialLeaf(secret))
	return len(ct.leaves) - 1, nil
}

func (ct *CredentialTree) levels() [][]*big.Int {
	level := make([]*big.Int, ct.Capacity())
	for i := range level {
		if i < len(ct.leaves) {
			level[i] = ct.leaves[i]
		} else {
			level[i] = big.NewInt(0)
		}
	}

	levels := [][]*big.Int{level}
	for len(level) > 1 {
		next := make([]*big.Int, len(level)/2)
		for i := range next {
			next[i] = mustMiMC(level[2*i], level[2*i+1])
		}
		levels = append(levels, next)
		level = next
	}

	return levels
}

func (ct *CredentialTree) Root() *big.Int {
	levels := ct.levels()
	return levels[len(levels)-1][0]
}

// Path returns the authentication path for the leaf at index. PathBits[i]
// is 1 when the node at height i is a right child.
func (ct *CredentialTree) Path(index int) (MerklePath, error) {
	var path MerklePath
	if index < 0 || index >= len(ct.leaves) {
		return path, fmt.Errorf("leaf index %d out of range [0, %d)", index, len(ct.leaves))
	}

	levels := ct.levels()
	pos := index
	for h := 0; h < TreeDepth; h++ {
		path.PathBits[h] = uint8(pos & 1)
		path.Siblings[h] = levels[h][pos^1]
		pos >>= 1
	}

	return path, nil
}

// ComputeRoot folds leaf up along path.
func ComputeRoot(leaf *big.Int, path MerklePath) *big.Int {
	node := leaf
	for h := 0; h < TreeDepth; h++ {
		if path.PathBits[h] == 1 {
			node = mustMiMC(path.Siblings[h], node)
		} else {
			node = mustMiMC(node, path.Siblings[h])
		}
	}
	return node
}
