// Package codec holds the JSON documents exchanged by the CLI subcommands and the HTTP API.
package codec

import (
	"fmt"

	"batnav/internal/game"
	"batnav/internal/merkle"
	"batnav/internal/zk"
)

// Layout is a fleet placement as stored on disk.
type Layout struct {
	Size  int          `json:"size"`
	Ships []ShipLayout `json:"ships"`
}

type ShipLayout struct {
	Length int          `json:"length"`
	Cells  []game.Coord `json:"cells"`
}

func LayoutOf(b *game.Board, fleet game.Fleet) Layout {
	l := Layout{Size: b.Size}
	for _, s := range fleet {
		l.Ships = append(l.Ships, ShipLayout{Length: s.Length, Cells: append([]game.Coord(nil), s.Cells...)})
	}
	return l
}

// Build replays the layout through the placement rules and returns a fresh, undamaged fleet.
func (l Layout) Build() (*game.Board, game.Fleet, error) {
	if l.Size < game.MinSize || l.Size > game.MaxSize {
		return nil, nil, fmt.Errorf("size %d outside [%d, %d]", l.Size, game.MinSize, game.MaxSize)
	}
	b := game.NewBoard(l.Size)
	var fleet game.Fleet
	for i, s := range l.Ships {
		if s.Length < 2 || len(s.Cells) != s.Length {
			return nil, nil, fmt.Errorf("ship %d: length %d with %d cells", i, s.Length, len(s.Cells))
		}
		o := game.Horizontal
		if s.Length > 1 && s.Cells[1].Row != s.Cells[0].Row {
			o = game.Vertical
		}
		var err error
		fleet, err = game.Place(b, fleet, s.Length, o, s.Cells[0])
		if err != nil {
			return nil, nil, fmt.Errorf("ship %d: %w", i, err)
		}
		for j, c := range fleet[i].Cells {
			if c != s.Cells[j] {
				return nil, nil, fmt.Errorf("ship %d: cells are not a straight line", i)
			}
		}
	}
	return b, fleet, nil
}

// Secret is the defender's private commitment state.
type Secret struct {
	Layout  Layout       `json:"layout"`
	Tree    *merkle.Tree `json:"tree"`
	SaltHex string       `json:"salt_hex"`
}

type ShotProofPayload struct {
	Proof  []byte        `json:"proof"`
	Public zk.ShotPublic `json:"public"` // salted root, cell index and hit bit
}
