package game

// Ship is a straight hull. Cells is fixed at placement; Hits only grows, and Hits ⊆ Cells.
type Ship struct {
	Length int     `json:"length"`
	Cells  []Coord `json:"cells"`
	Hits   []Coord `json:"hits,omitempty"`
}

func (s *Ship) IsSunk() bool { return len(s.Hits) == s.Length }

func (s *Ship) IsHitAt(c Coord) bool {
	for _, h := range s.Hits {
		if h == c {
			return true
		}
	}
	return false
}

// Fleet is the ordered set of ships of one side. Board cells refer to ships by index.
type Fleet []*Ship

func (f Fleet) AllSunk() bool {
	for _, s := range f {
		if !s.IsSunk() {
			return false
		}
	}
	return true
}

// Afloat counts ships not sunk yet.
func (f Fleet) Afloat() int {
	n := 0
	for _, s := range f {
		if !s.IsSunk() {
			n++
		}
	}
	return n
}

// RemainingLengths returns the hull lengths of the ships still afloat, in fleet order.
func (f Fleet) RemainingLengths() []int {
	var out []int
	for _, s := range f {
		if !s.IsSunk() {
			out = append(out, s.Length)
		}
	}
	return out
}
