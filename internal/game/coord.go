package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseCoord reads "B7"-style input: a column letter then the displayed row number (1 at the bottom).
func ParseCoord(s string, size int) (Coord, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 || s[0] < 'A' || s[0] > 'Z' {
		return Coord{}, ErrInvalidFormat
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return Coord{}, ErrInvalidFormat
		}
	}
	n, err := strconv.Atoi(s[1:])
	if errors.Is(err, strconv.ErrRange) {
		return Coord{}, ErrOutOfBounds
	}
	if err != nil {
		return Coord{}, ErrInvalidFormat
	}
	col := int(s[0] - 'A')
	row := size - n
	if n < 1 || n > size || row < 0 || row >= size || col < 0 || col >= size {
		return Coord{}, ErrOutOfBounds
	}
	return Coord{Row: row, Col: col}, nil
}

// Label renders c the way ParseCoord reads it.
func (c Coord) Label(size int) string {
	return fmt.Sprintf("%c%d", 'A'+c.Col, size-c.Row)
}
