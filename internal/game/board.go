package game

// MinSize and MaxSize bound the side of a playable board.
const (
	MinSize = 8
	MaxSize = 26
)

// CellKind tags what occupies an ownership cell.
type CellKind uint8

const (
	Empty CellKind = iota
	Occupied
)

// Cell is a tagged variant: Empty, or Occupied by the ship at index Ship of the fleet.
type Cell struct {
	Kind CellKind
	Ship int
}

// Coord is a zero-based (row, col) pair. Row 0 is the top displayed row.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is the ownership grid of one side.
type Board struct {
	Size  int
	Cells [][]Cell
}

func NewBoard(size int) *Board {
	cells := make([][]Cell, size)
	for r := range cells {
		cells[r] = make([]Cell, size)
	}
	return &Board{Size: size, Cells: cells}
}

func (b *Board) In(c Coord) bool {
	return c.Row >= 0 && c.Row < b.Size && c.Col >= 0 && c.Col < b.Size
}

func (b *Board) At(c Coord) Cell { return b.Cells[c.Row][c.Col] }
func (b *Board) Set(c Coord, v Cell) { b.Cells[c.Row][c.Col] = v }
func (b *Board) IsShip(c Coord) bool { return b.Cells[c.Row][c.Col].Kind == Occupied }

// ShipAt returns the fleet index of the ship covering c.
func (b *Board) ShipAt(c Coord) (int, bool) {
	cell := b.Cells[c.Row][c.Col]
	if cell.Kind != Occupied {
		return 0, false
	}
	return cell.Ship, true
}

// Flatten returns one byte per cell in row-major order: 0=water, 1=ship.
func (b *Board) Flatten() []uint8 {
	out := make([]uint8, b.Size*b.Size)
	k := 0
	for r := 0; r < b.Size; r++ {
		for c := 0; c < b.Size; c++ {
			if b.Cells[r][c].Kind == Occupied {
				out[k] = 1
			}
			k++
		}
	}
	return out
}

// Mark is the per-cell record of a shot grid.
type Mark uint8

const (
	Unknown Mark = iota
	Miss
	Hit
	Sunk
)

// ShotGrid records the shots fired at one side.
type ShotGrid struct {
	Size  int
	Marks [][]Mark
}

func NewShotGrid(size int) *ShotGrid {
	marks := make([][]Mark, size)
	for r := range marks {
		marks[r] = make([]Mark, size)
	}
	return &ShotGrid{Size: size, Marks: marks}
}

func (g *ShotGrid) Mark(c Coord) Mark { return g.Marks[c.Row][c.Col] }
func (g *ShotGrid) SetMark(c Coord, m Mark) { g.Marks[c.Row][c.Col] = m }

// Unknowns lists every cell not shot yet, row-major.
func (g *ShotGrid) Unknowns() []Coord {
	var out []Coord
	for r := 0; r < g.Size; r++ {
		for c := 0; c < g.Size; c++ {
			if g.Marks[r][c] == Unknown {
				out = append(out, Coord{r, c})
			}
		}
	}
	return out
}
