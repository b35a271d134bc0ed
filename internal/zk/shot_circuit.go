package zk

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

const MerkleDepth = 10 // 1024 leaves, enough for a 32x32 grid

// Leaves is the number of leaves of every committed tree.
const Leaves = 1 << MerkleDepth

// ShotCircuit proves that cell Index of the committed layout holds Hit, without revealing
// anything else about the layout.
type ShotCircuit struct {
	Bit  frontend.Variable              `gnark:",secret"`
	Salt frontend.Variable              `gnark:",secret"`
	Path [MerkleDepth]frontend.Variable `gnark:",secret"`
	Dir  [MerkleDepth]frontend.Variable `gnark:",secret"`

	Root  frontend.Variable `gnark:",public"` // salted root
	Index frontend.Variable `gnark:",public"`
	Hit   frontend.Variable `gnark:",public"`
}

func (c *ShotCircuit) Define(api frontend.API) error {
	api.AssertIsBoolean(c.Bit)
	api.AssertIsEqual(c.Hit, c.Bit)

	// leaf hash = MiMC(Bit)  (v0.14 returns (MiMC, error))
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	h.Reset()
	h.Write(c.Bit)
	curr := h.Sum()

	// walk the Merkle path; the direction bits spell out Index
	idx := frontend.Variable(0)
	for i := 0; i < MerkleDepth; i++ {
		api.AssertIsBoolean(c.Dir[i])
		idx = api.Add(idx, api.Mul(c.Dir[i], 1<<i))

		h.Reset()
		isRight := c.Dir[i]
		left := api.Select(isRight, c.Path[i], curr)
		right := api.Select(isRight, curr, c.Path[i])
		h.Write(left, right)
		curr = h.Sum()
	}
	api.AssertIsEqual(idx, c.Index)

	h.Reset()
	h.Write(c.Salt, curr)
	api.AssertIsEqual(h.Sum(), c.Root)
	return nil
}
