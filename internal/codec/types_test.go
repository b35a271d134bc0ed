package codec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"batnav/internal/game"
)

func TestLayoutBuildReplaysPlacement(t *testing.T) {
	b, fleet, err := game.RandomFleet(12, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	l := LayoutOf(b, fleet)
	b2, fleet2, err := l.Build()
	require.NoError(t, err)
	require.Equal(t, b.Flatten(), b2.Flatten())
	require.Len(t, fleet2, len(fleet))
	for i := range fleet {
		require.Equal(t, fleet[i].Cells, fleet2[i].Cells)
	}
}

func TestLayoutBuildRejects(t *testing.T) {
	cases := map[string]Layout{
		"size":     {Size: 4},
		"length":   {Size: 8, Ships: []ShipLayout{{Length: 2, Cells: []game.Coord{{Row: 0, Col: 0}}}}},
		"bent":     {Size: 8, Ships: []ShipLayout{{Length: 3, Cells: []game.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 1}}}}},
		"touching": {Size: 8, Ships: []ShipLayout{
			{Length: 2, Cells: []game.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}}},
			{Length: 2, Cells: []game.Coord{{Row: 1, Col: 2}, {Row: 1, Col: 3}}},
		}},
	}
	for name, l := range cases {
		_, _, err := l.Build()
		require.Error(t, err, name)
	}
}
