package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// Orientation of a hull: Horizontal grows to the right, Vertical grows downwards.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "V"
	}
	return "H"
}

// ParseOrientation accepts V, or H/O for horizontal.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "V":
		return Vertical, nil
	case "H", "O":
		return Horizontal, nil
	}
	return 0, errors.New("orientation must be 'V' or 'H'")
}

// FleetConfig returns the hull lengths for a board side, longest first.
func FleetConfig(size int) []int {
	switch {
	case size <= 9:
		return []int{4, 3, 2, 2}
	case size <= 12:
		return []int{5, 4, 3, 3, 2}
	case size <= 16:
		return []int{6, 5, 4, 3, 3, 2}
	case size <= 20:
		return []int{7, 6, 5, 4, 4, 3, 2}
	default:
		return []int{8, 7, 6, 5, 4, 4, 3, 3}
	}
}

// CanPlace reports whether a hull fits inside the board with a free one-cell halo around it.
func CanPlace(b *Board, length int, o Orientation, at Coord) bool {
	if at.Row < 0 || at.Col < 0 {
		return false
	}
	end := at
	if o == Vertical {
		end.Row += length - 1
	} else {
		end.Col += length - 1
	}
	if !b.In(end) || !b.In(at) {
		return false
	}
	for r := max(0, at.Row-1); r < min(b.Size, end.Row+2); r++ {
		for c := max(0, at.Col-1); c < min(b.Size, end.Col+2); c++ {
			if b.Cells[r][c].Kind != Empty {
				return false
			}
		}
	}
	return true
}

// Place commits a hull to the board and appends it to the fleet.
func Place(b *Board, fleet Fleet, length int, o Orientation, at Coord) (Fleet, error) {
	if !CanPlace(b, length, o, at) {
		return fleet, ErrIllegalPlacement
	}
	idx := len(fleet)
	s := &Ship{Length: length, Cells: make([]Coord, 0, length)}
	for i := 0; i < length; i++ {
		c := at
		if o == Vertical {
			c.Row += i
		} else {
			c.Col += i
		}
		b.Set(c, Cell{Kind: Occupied, Ship: idx})
		s.Cells = append(s.Cells, c)
	}
	return append(fleet, s), nil
}

const maxPlacementTries = 100000

// PlaceRandom samples orientation and start uniformly per hull until one fits.
// There is no backtracking across ships.
func PlaceRandom(b *Board, fleet Fleet, lengths []int, rng *rand.Rand) (Fleet, error) {
	for _, L := range lengths {
		tries := 0
		for {
			if tries > maxPlacementTries {
				return fleet, fmt.Errorf("no room for a ship of length %d: %w", L, ErrIllegalPlacement)
			}
			tries++
			o := Orientation(rng.Intn(2))
			var at Coord
			if o == Vertical {
				at = Coord{Row: rng.Intn(b.Size - L + 1), Col: rng.Intn(b.Size)}
			} else {
				at = Coord{Row: rng.Intn(b.Size), Col: rng.Intn(b.Size - L + 1)}
			}
			if CanPlace(b, L, o, at) {
				fleet, _ = Place(b, fleet, L, o, at)
				break
			}
		}
	}
	return fleet, nil
}

// RandomFleet builds a fresh board of the given size with the configured fleet.
func RandomFleet(size int, rng *rand.Rand) (*Board, Fleet, error) {
	b := NewBoard(size)
	f, err := PlaceRandom(b, nil, FleetConfig(size), rng)
	if err != nil {
		return nil, nil, err
	}
	return b, f, nil
}

// Prompter is the human side of an interactive flow. Ask returns ErrQuit when the player leaves.
type Prompter interface {
	Ask(prompt string) (string, error)
	Say(format string, args ...any)
}

// SetupView is implemented by prompters that can draw a fleet while it is being placed.
type SetupView interface {
	ShowSetup(b *Board)
}

type placeMode uint8

const (
	modeManual placeMode = iota
	modeAuto
)

// PlaceManual asks the player for every hull. "AUTO" (or "IA") switches the loop to auto mode,
// which hands the remaining hulls to PlaceRandom on the same board and fleet.
func PlaceManual(b *Board, fleet Fleet, lengths []int, rng *rand.Rand, p Prompter) (Fleet, error) {
	mode := modeManual
	for i := 0; i < len(lengths); {
		switch mode {
		case modeAuto:
			p.Say("Placing the remaining ships automatically...")
			return PlaceRandom(b, fleet, lengths[i:], rng)
		case modeManual:
			next, m, err := askPlacement(b, fleet, lengths[i], p)
			if err != nil {
				return fleet, err
			}
			mode = m
			if len(next) > len(fleet) {
				fleet = next
				i++
			}
		}
	}
	return fleet, nil
}

// askPlacement runs one prompt round. It returns the grown fleet on success, the unchanged
// fleet when the input was rejected, and modeAuto when the player gave up placing by hand.
func askPlacement(b *Board, fleet Fleet, length int, p Prompter) (Fleet, placeMode, error) {
	if v, ok := p.(SetupView); ok {
		v.ShowSetup(b)
	}
	p.Say("Place your ship of length %d.", length)
	in, err := p.Ask("Coordinate (e.g. A1), 'auto' or 'q' to quit: ")
	if err != nil {
		return fleet, modeManual, err
	}
	switch strings.ToUpper(strings.TrimSpace(in)) {
	case "AUTO", "IA":
		return fleet, modeAuto, nil
	case "":
		return fleet, modeManual, nil
	}
	at, err := ParseCoord(in, b.Size)
	if err != nil {
		p.Say("Error: %v. Try again.", err)
		return fleet, modeManual, nil
	}
	ans, err := p.Ask("Orientation ('V' vertical, 'H' horizontal): ")
	if err != nil {
		return fleet, modeManual, err
	}
	o, err := ParseOrientation(ans)
	if err != nil {
		p.Say("Error: %v.", err)
		return fleet, modeManual, nil
	}
	next, err := Place(b, fleet, length, o, at)
	if err != nil {
		p.Say("Invalid position! %v.", err)
		return fleet, modeManual, nil
	}
	p.Say("Ship of length %d placed.", length)
	return next, modeManual, nil
}
