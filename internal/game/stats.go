package game

import "math"

// Stats summarises the shots recorded on a grid.
type Stats struct {
	Hits     int
	Misses   int
	Shots    int
	Accuracy float64 // percent, one decimal
}

func StatsOf(g *ShotGrid) Stats {
	var st Stats
	for r := 0; r < g.Size; r++ {
		for c := 0; c < g.Size; c++ {
			switch g.Marks[r][c] {
			case Hit, Sunk:
				st.Hits++
			case Miss:
				st.Misses++
			}
		}
	}
	st.Shots = st.Hits + st.Misses
	if st.Shots > 0 {
		st.Accuracy = math.Round(float64(st.Hits)/float64(st.Shots)*1000) / 10
	}
	return st
}
