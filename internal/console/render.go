package console

import (
	"fmt"
	"strings"

	"batnav/internal/game"
)

// Glyphs, one per cell state.
const (
	GlyphUnknown  = '.'
	GlyphMiss     = 'o'
	GlyphHit      = 'X'
	GlyphSunk     = 'A'
	GlyphShip     = 'S'
	GlyphShipHit  = 'c'
	GlyphShipSunk = 'F'
)

// TargetView is what a player knows about the enemy grid.
func TargetView(shots *game.ShotGrid) [][]rune {
	out := make([][]rune, shots.Size)
	for r := range out {
		out[r] = make([]rune, shots.Size)
		for c := range out[r] {
			switch shots.Marks[r][c] {
			case game.Miss:
				out[r][c] = GlyphMiss
			case game.Hit:
				out[r][c] = GlyphHit
			case game.Sunk:
				out[r][c] = GlyphSunk
			default:
				out[r][c] = GlyphUnknown
			}
		}
	}
	return out
}

// FleetView shows a player's own ships with the damage taken and the enemy's misses.
func FleetView(b *game.Board, fleet game.Fleet, incoming *game.ShotGrid) [][]rune {
	out := make([][]rune, b.Size)
	for r := range out {
		out[r] = make([]rune, b.Size)
		for c := range out[r] {
			at := game.Coord{Row: r, Col: c}
			idx, ok := b.ShipAt(at)
			switch {
			case ok && fleet[idx].IsSunk():
				out[r][c] = GlyphShipSunk
			case ok && fleet[idx].IsHitAt(at):
				out[r][c] = GlyphShipHit
			case ok:
				out[r][c] = GlyphShip
			case incoming.Mark(at) == game.Miss:
				out[r][c] = GlyphMiss
			default:
				out[r][c] = GlyphUnknown
			}
		}
	}
	return out
}

func colLabels(size int) string {
	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < size; c++ {
		sb.WriteByte(byte('A' + c))
	}
	return sb.String()
}

func rowLine(size, r int, cells []rune) string {
	return fmt.Sprintf("%-2d|%s|", size-r, string(cells))
}

// SetupGrid draws a single board during placement.
func SetupGrid(b *game.Board) string {
	var sb strings.Builder
	sb.WriteString(colLabels(b.Size) + "\n")
	for r := 0; r < b.Size; r++ {
		cells := make([]rune, b.Size)
		for c := range cells {
			cells[c] = GlyphUnknown
			if b.IsShip(game.Coord{Row: r, Col: c}) {
				cells[c] = GlyphShip
			}
		}
		sb.WriteString(rowLine(b.Size, r, cells) + "\n")
	}
	return sb.String()
}

// DualGrid draws the target view and the own-fleet view side by side.
func DualGrid(left, right [][]rune) string {
	size := len(left)
	const gap = "      "
	leftTitle, rightTitle := "TARGET GRID", "YOUR FLEET"
	pad := max(1, size-len(leftTitle)+5+len(gap))
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s%s%s\n", leftTitle, strings.Repeat(" ", pad), rightTitle)
	labels := colLabels(size)
	fmt.Fprintf(&sb, "%s%s%s\n", labels, gap, labels)
	for r := 0; r < size; r++ {
		fmt.Fprintf(&sb, "%s%s%s\n", rowLine(size, r, left[r]), gap, rowLine(size, r, right[r]))
	}
	frame := "  +" + strings.Repeat("-", size) + "+"
	fmt.Fprintf(&sb, "%s%s%s\n", frame, gap, frame)
	return sb.String()
}

// StatusPrompt is the per-turn shot prompt: turn, ships afloat on both sides and accuracies.
func StatusPrompt(turn int, own, enemy game.Fleet, ownShots, enemyShots game.Stats) string {
	return fmt.Sprintf("T:%d N:%d/%d A:%d/%d p%%:%.1f/%.1f> ",
		turn, own.Afloat(), len(own), enemy.Afloat(), len(enemy), ownShots.Accuracy, enemyShots.Accuracy)
}
