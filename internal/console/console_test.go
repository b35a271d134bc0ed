package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"batnav/internal/game"
)

func TestPrompterQuitAndEOF(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader(" b5 \nq\n"), &out)

	line, err := p.Ask("> ")
	require.NoError(t, err)
	require.Equal(t, "b5", line)

	_, err = p.Ask("> ")
	require.ErrorIs(t, err, game.ErrQuit)

	_, err = p.Ask("> ")
	require.ErrorIs(t, err, game.ErrQuit)
	require.Contains(t, out.String(), "> ")
}

func TestPrompterRejectsOverlongLine(t *testing.T) {
	var out bytes.Buffer
	in := strings.Repeat("x", 100_000) + "\nb5\n" + strings.Repeat("y", MaxLine) + "\nlast"
	p := NewPrompter(strings.NewReader(in), &out)

	line, err := p.Ask("> ")
	require.NoError(t, err)
	require.Equal(t, "b5", line)
	require.Contains(t, out.String(), "Input too long")
	require.Equal(t, 2, strings.Count(out.String(), "> "))

	line, err = p.Ask("> ")
	require.NoError(t, err)
	require.Len(t, line, MaxLine)

	// a final line without a newline is still read
	line, err = p.Ask("> ")
	require.NoError(t, err)
	require.Equal(t, "last", line)

	_, err = p.Ask("> ")
	require.ErrorIs(t, err, game.ErrQuit)
}

func TestViewsAndDualGrid(t *testing.T) {
	b := game.NewBoard(8)
	fleet, err := game.Place(b, nil, 2, game.Horizontal, game.Coord{Row: 0, Col: 0})
	require.NoError(t, err)
	fleet, err = game.Place(b, fleet, 3, game.Vertical, game.Coord{Row: 3, Col: 5})
	require.NoError(t, err)
	incoming := game.NewShotGrid(8)
	game.TakeShot(b, fleet, incoming, game.Coord{Row: 0, Col: 0})
	game.TakeShot(b, fleet, incoming, game.Coord{Row: 0, Col: 1})
	game.TakeShot(b, fleet, incoming, game.Coord{Row: 4, Col: 5})
	game.TakeShot(b, fleet, incoming, game.Coord{Row: 7, Col: 7})

	fv := FleetView(b, fleet, incoming)
	require.Equal(t, "FF......", string(fv[0]))
	require.Equal(t, ".....S..", string(fv[3]))
	require.Equal(t, ".....c..", string(fv[4]))
	require.Equal(t, ".......o", string(fv[7]))

	tv := TargetView(incoming)
	require.Equal(t, "AA......", string(tv[0]))
	require.Equal(t, ".....X..", string(tv[4]))

	out := DualGrid(tv, fv)
	require.Contains(t, out, "TARGET GRID")
	require.Contains(t, out, "YOUR FLEET")
	require.Contains(t, out, "8 |AA......|      8 |FF......|")
	require.Contains(t, out, "1 |.......o|      1 |.......o|")
	require.Contains(t, out, "  +--------+")

	setup := SetupGrid(b)
	require.True(t, strings.HasPrefix(setup, "   ABCDEFGH\n8 |SS......|\n"))
}

func TestStatusPrompt(t *testing.T) {
	own := game.Fleet{{Length: 2}, {Length: 2, Hits: []game.Coord{{}, {}}}}
	enemy := game.Fleet{{Length: 3}}
	got := StatusPrompt(4, own, enemy, game.Stats{Accuracy: 50}, game.Stats{Accuracy: 12.5})
	require.Equal(t, "T:4 N:1/2 A:1/1 p%:50.0/12.5> ", got)
}
