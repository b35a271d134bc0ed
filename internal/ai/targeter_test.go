package ai

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"batnav/internal/game"
)

// placementsCovering counts the in-board placements of a length-L hull covering (r, c).
func placementsCovering(size, L, r, c int) int {
	count := func(pos int) int {
		lo := max(0, pos-L+1)
		hi := min(pos, size-L)
		if hi < lo {
			return 0
		}
		return hi - lo + 1
	}
	return count(c) + count(r)
}

func TestHuntMapSingleShipOnEmptyBoard(t *testing.T) {
	for _, L := range []int{2, 3, 5} {
		size := 10
		m := HuntMap(game.NewShotGrid(size), []int{L})
		for r := 0; r < size; r++ {
			for c := 0; c < size; c++ {
				require.Equal(t, placementsCovering(size, L, r, c), m[r][c], "L=%d r=%d c=%d", L, r, c)
			}
		}
		require.Less(t, m[0][0], m[size/2][size/2])
		require.Less(t, m[size-1][size-1], m[size/2-1][size/2])
	}
}

func TestHuntMapSkipsShotCells(t *testing.T) {
	shots := game.NewShotGrid(8)
	shots.SetMark(game.Coord{Row: 0, Col: 1}, game.Miss)
	m := HuntMap(shots, []int{2})
	require.Equal(t, 0, m[0][1])
	// (0,0) can only be covered vertically now
	require.Equal(t, 1, m[0][0])
}

func TestTargetMapTwoHorizontalHits(t *testing.T) {
	shots := game.NewShotGrid(10)
	pending := []game.Coord{{Row: 5, Col: 5}, {Row: 5, Col: 6}}
	for _, h := range pending {
		shots.SetMark(h, game.Hit)
	}
	m := TargetMap(shots, []int{3}, pending)
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			switch (game.Coord{Row: r, Col: c}) {
			case game.Coord{Row: 5, Col: 4}, game.Coord{Row: 5, Col: 7}:
				require.Positive(t, m[r][c], "r=%d c=%d", r, c)
			default:
				require.Zero(t, m[r][c], "r=%d c=%d", r, c)
			}
		}
	}
}

func TestTargetMapSingleHitSpreadsBothAxes(t *testing.T) {
	shots := game.NewShotGrid(8)
	hit := game.Coord{Row: 0, Col: 0}
	shots.SetMark(hit, game.Hit)
	shots.SetMark(game.Coord{Row: 1, Col: 0}, game.Miss)
	m := TargetMap(shots, []int{2}, []game.Coord{hit})
	require.Equal(t, 1, m[0][1])
	require.Zero(t, m[1][0])
	require.Zero(t, m[0][0])
}

func TestNextFollowsPendingHitAndResetsOnSink(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	b := game.NewBoard(8)
	fleet, err := game.Place(b, nil, 3, game.Horizontal, game.Coord{Row: 4, Col: 3})
	require.NoError(t, err)
	shots := game.NewShotGrid(8)
	tg := New(rng)

	first := game.Coord{Row: 4, Col: 4}
	res := game.TakeShot(b, fleet, shots, first)
	require.Equal(t, game.OutcomeHit, res.Outcome)
	tg.Observe(first, res.Outcome)
	require.Equal(t, Target, tg.Mode())

	for i := 0; i < 10 && !fleet.AllSunk(); i++ {
		c := tg.Next(shots, fleet.RemainingLengths())
		require.LessOrEqual(t, abs(c.Row-first.Row)+abs(c.Col-first.Col), 2, "shot %v strays from the hit", c)
		res := game.TakeShot(b, fleet, shots, c)
		require.NotEqual(t, game.OutcomeAlreadyShot, res.Outcome)
		tg.Observe(c, res.Outcome)
	}
	require.True(t, fleet.AllSunk())
	require.Equal(t, Hunt, tg.Mode())
	require.Empty(t, tg.Pending())
}

func TestNextFallsBack(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	shots := game.NewShotGrid(8)
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			shots.SetMark(game.Coord{Row: r, Col: c}, game.Miss)
		}
	}
	tg := New(rng)
	require.Equal(t, game.Coord{}, tg.Next(shots, []int{2}))

	// a single isolated unknown cell fits no ship: uniform fallback picks it
	shots.SetMark(game.Coord{Row: 3, Col: 3}, game.Unknown)
	require.Equal(t, game.Coord{Row: 3, Col: 3}, tg.Next(shots, []int{2}))
}

func TestAIAlwaysFinishesAGame(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, size := range []int{8, 12, 20} {
		b, fleet, err := game.RandomFleet(size, rng)
		require.NoError(t, err)
		shots := game.NewShotGrid(size)
		tg := New(rng)
		n := 0
		for !fleet.AllSunk() {
			c := tg.Next(shots, fleet.RemainingLengths())
			res := game.TakeShot(b, fleet, shots, c)
			require.NotEqual(t, game.OutcomeAlreadyShot, res.Outcome, "size %d shot %v", size, c)
			tg.Observe(c, res.Outcome)
			n++
			require.LessOrEqual(t, n, size*size)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
