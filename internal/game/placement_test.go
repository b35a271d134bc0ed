package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFleetConfigBands(t *testing.T) {
	cases := []struct {
		size int
		want []int
	}{
		{8, []int{4, 3, 2, 2}},
		{9, []int{4, 3, 2, 2}},
		{10, []int{5, 4, 3, 3, 2}},
		{12, []int{5, 4, 3, 3, 2}},
		{16, []int{6, 5, 4, 3, 3, 2}},
		{20, []int{7, 6, 5, 4, 4, 3, 2}},
		{26, []int{8, 7, 6, 5, 4, 4, 3, 3}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FleetConfig(tc.size), "size %d", tc.size)
	}
}

func TestCanPlaceRejectsHaloOverlap(t *testing.T) {
	b := NewBoard(10)
	f, err := Place(b, nil, 3, Horizontal, Coord{4, 4}) // (4,4) (4,5) (4,6)
	require.NoError(t, err)
	require.Len(t, f, 1)

	occupied := map[Coord]bool{}
	for _, c := range f[0].Cells {
		occupied[c] = true
	}
	touches := func(c Coord) bool {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if occupied[Coord{c.Row + dr, c.Col + dc}] {
					return true
				}
			}
		}
		return false
	}

	// exhaustively compare against a brute force of the halo rule for a length-2 hull
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			for _, o := range []Orientation{Horizontal, Vertical} {
				end := Coord{r, c + 1}
				if o == Vertical {
					end = Coord{r + 1, c}
				}
				want := b.In(end) && !touches(Coord{r, c}) && !touches(end)
				require.Equal(t, want, CanPlace(b, 2, o, Coord{r, c}), "r=%d c=%d o=%v", r, c, o)
			}
		}
	}
}

func TestCanPlaceBounds(t *testing.T) {
	b := NewBoard(8)
	require.True(t, CanPlace(b, 4, Horizontal, Coord{0, 4}))
	require.False(t, CanPlace(b, 4, Horizontal, Coord{0, 5}))
	require.True(t, CanPlace(b, 4, Vertical, Coord{4, 7}))
	require.False(t, CanPlace(b, 4, Vertical, Coord{5, 7}))
	require.False(t, CanPlace(b, 2, Vertical, Coord{-1, 0}))
}

func TestPlaceRandomProducesLegalFleet(t *testing.T) {
	for _, size := range []int{8, 10, 13, 17, 21, 26} {
		rng := rand.New(rand.NewSource(int64(size)))
		for round := 0; round < 20; round++ {
			b, f, err := RandomFleet(size, rng)
			require.NoError(t, err)

			var lengths []int
			owner := map[Coord]int{}
			for i, s := range f {
				lengths = append(lengths, s.Length)
				require.Len(t, s.Cells, s.Length)
				for _, c := range s.Cells {
					require.True(t, b.In(c))
					idx, ok := b.ShipAt(c)
					require.True(t, ok)
					require.Equal(t, i, idx)
					owner[c] = i
				}
			}
			require.Equal(t, FleetConfig(size), lengths)

			// no two ships touch, diagonals included
			for c, i := range owner {
				for dr := -1; dr <= 1; dr++ {
					for dc := -1; dc <= 1; dc++ {
						if j, ok := owner[Coord{c.Row + dr, c.Col + dc}]; ok {
							require.Equal(t, i, j, "ships %d and %d touch at %v", i, j, c)
						}
					}
				}
			}
		}
	}
}

type scriptedPrompter struct {
	lines []string
	said  []string
}

func (p *scriptedPrompter) Ask(string) (string, error) {
	if len(p.lines) == 0 {
		return "", ErrQuit
	}
	l := p.lines[0]
	p.lines = p.lines[1:]
	if l == "Q" {
		return "", ErrQuit
	}
	return l, nil
}

func (p *scriptedPrompter) Say(format string, args ...any) {
	p.said = append(p.said, format)
}

func TestPlaceManual(t *testing.T) {
	b := NewBoard(8)
	p := &scriptedPrompter{lines: []string{
		"A8", "H", // length 4 at row 0
		"Z9",      // rejected: out of bounds
		"A7", "H", // rejected: touches the first ship
		"A5", "X", // rejected: orientation
		"A5", "V", // length 3 at rows 3..5
		"H1", "V", // rejected: leaves the grid
		"H2", "V", // length 2 at rows 6..7
		"E1", "H", // length 2 at row 7
	}}
	f, err := PlaceManual(b, nil, FleetConfig(8), rand.New(rand.NewSource(1)), p)
	require.NoError(t, err)
	require.Len(t, f, 4)
	require.Equal(t, []Coord{{0, 0}, {0, 1}, {0, 2}, {0, 3}}, f[0].Cells)
	require.Equal(t, []Coord{{3, 0}, {4, 0}, {5, 0}}, f[1].Cells)
	require.Equal(t, []Coord{{6, 7}, {7, 7}}, f[2].Cells)
	require.Equal(t, []Coord{{7, 4}, {7, 5}}, f[3].Cells)
	require.Empty(t, p.lines)
}

func TestPlaceManualAutoCompletesFleet(t *testing.T) {
	b := NewBoard(10)
	p := &scriptedPrompter{lines: []string{"C7", "v", "auto"}}
	f, err := PlaceManual(b, nil, FleetConfig(10), rand.New(rand.NewSource(7)), p)
	require.NoError(t, err)
	require.Len(t, f, 5)
	require.Equal(t, []Coord{{3, 2}, {4, 2}, {5, 2}, {6, 2}, {7, 2}}, f[0].Cells)
	require.Empty(t, p.lines)
	for i, s := range f {
		for _, c := range s.Cells {
			idx, ok := b.ShipAt(c)
			require.True(t, ok)
			require.Equal(t, i, idx)
		}
	}
}

func TestPlaceManualQuit(t *testing.T) {
	b := NewBoard(8)
	p := &scriptedPrompter{lines: []string{"A8", "H", "Q"}}
	f, err := PlaceManual(b, nil, FleetConfig(8), rand.New(rand.NewSource(1)), p)
	require.ErrorIs(t, err, ErrQuit)
	require.Len(t, f, 1)
}
