// Package ai implements the computer's shot selection: a hunt/target search over
// probability-density maps of the ship placements still consistent with the shot grid.
package ai

import (
	"math/rand"

	"batnav/internal/game"
)

// Mode is the current search phase.
type Mode uint8

const (
	Hunt Mode = iota
	Target
)

func (m Mode) String() string {
	if m == Target {
		return "target"
	}
	return "hunt"
}

// Targeter carries the pending hits between turns: hits on ships not sunk yet.
type Targeter struct {
	rng     *rand.Rand
	pending []game.Coord
}

func New(rng *rand.Rand) *Targeter {
	return &Targeter{rng: rng}
}

func (t *Targeter) Mode() Mode {
	if len(t.pending) == 0 {
		return Hunt
	}
	return Target
}

// Pending returns a copy of the unresolved hits.
func (t *Targeter) Pending() []game.Coord {
	return append([]game.Coord(nil), t.pending...)
}

// Observe feeds back the outcome of the last shot.
func (t *Targeter) Observe(c game.Coord, o game.Outcome) {
	switch o {
	case game.OutcomeHit:
		t.pending = append(t.pending, c)
	case game.OutcomeHitAndSunk:
		t.pending = t.pending[:0]
	}
}

// Next picks the cell to fire at. remaining holds the lengths of the enemy ships still afloat.
func (t *Targeter) Next(shots *game.ShotGrid, remaining []int) game.Coord {
	var m [][]int
	if t.Mode() == Hunt {
		m = HuntMap(shots, remaining)
	} else {
		m = TargetMap(shots, remaining, t.pending)
	}
	return pick(shots, m, t.rng)
}

func newMap(size int) [][]int {
	m := make([][]int, size)
	for r := range m {
		m[r] = make([]int, size)
	}
	return m
}

// HuntMap counts, for each cell, the in-board placements of every remaining length that
// cover it and lie entirely on unknown cells.
func HuntMap(shots *game.ShotGrid, remaining []int) [][]int {
	size := shots.Size
	m := newMap(size)
	for _, L := range remaining {
		for r := 0; r < size; r++ {
			for c := 0; c < size; c++ {
				if c+L <= size && allUnknown(shots, game.Coord{Row: r, Col: c}, L, game.Horizontal) {
					for i := 0; i < L; i++ {
						m[r][c+i]++
					}
				}
				if r+L <= size && allUnknown(shots, game.Coord{Row: r, Col: c}, L, game.Vertical) {
					for i := 0; i < L; i++ {
						m[r+i][c]++
					}
				}
			}
		}
	}
	return m
}

func allUnknown(shots *game.ShotGrid, at game.Coord, L int, o game.Orientation) bool {
	for _, c := range span(at, L, o) {
		if shots.Mark(c) != game.Unknown {
			return false
		}
	}
	return true
}

func span(at game.Coord, L int, o game.Orientation) []game.Coord {
	out := make([]game.Coord, L)
	for i := range out {
		if o == game.Vertical {
			out[i] = game.Coord{Row: at.Row + i, Col: at.Col}
		} else {
			out[i] = game.Coord{Row: at.Row, Col: at.Col + i}
		}
	}
	return out
}

// TargetMap weights the unknown cells of every placement that contains all pending hits and
// otherwise covers only unknown cells. A placement is counted once per pending hit it contains.
func TargetMap(shots *game.ShotGrid, remaining []int, pending []game.Coord) [][]int {
	size := shots.Size
	m := newMap(size)
	isPending := make(map[game.Coord]bool, len(pending))
	for _, h := range pending {
		isPending[h] = true
	}
	for _, L := range remaining {
		for _, h := range pending {
			for off := 0; off < L; off++ {
				for _, o := range []game.Orientation{game.Horizontal, game.Vertical} {
					at := game.Coord{Row: h.Row, Col: h.Col - off}
					if o == game.Vertical {
						at = game.Coord{Row: h.Row - off, Col: h.Col}
					}
					if at.Row < 0 || at.Col < 0 || at.Row+rowSpan(L, o) > size || at.Col+colSpan(L, o) > size {
						continue
					}
					cells := span(at, L, o)
					if !consistent(shots, cells, isPending, pending) {
						continue
					}
					for _, c := range cells {
						if shots.Mark(c) == game.Unknown {
							m[c.Row][c.Col]++
						}
					}
				}
			}
		}
	}
	return m
}

func rowSpan(L int, o game.Orientation) int {
	if o == game.Vertical {
		return L
	}
	return 1
}

func colSpan(L int, o game.Orientation) int {
	if o == game.Horizontal {
		return L
	}
	return 1
}

func consistent(shots *game.ShotGrid, cells []game.Coord, isPending map[game.Coord]bool, pending []game.Coord) bool {
	in := make(map[game.Coord]bool, len(cells))
	for _, c := range cells {
		if shots.Mark(c) != game.Unknown && !isPending[c] {
			return false
		}
		in[c] = true
	}
	for _, h := range pending {
		if !in[h] {
			return false
		}
	}
	return true
}

// pick returns a uniformly random cell among those with the highest positive weight,
// or a random unknown cell when nothing is weighted, or the origin when the grid is full.
func pick(shots *game.ShotGrid, m [][]int, rng *rand.Rand) game.Coord {
	best := 0
	var cands []game.Coord
	for r := range m {
		for c, v := range m[r] {
			switch {
			case v > best:
				best = v
				cands = append(cands[:0], game.Coord{Row: r, Col: c})
			case v == best && v > 0:
				cands = append(cands, game.Coord{Row: r, Col: c})
			}
		}
	}
	if len(cands) == 0 {
		cands = shots.Unknowns()
	}
	if len(cands) == 0 {
		return game.Coord{}
	}
	return cands[rng.Intn(len(cands))]
}
