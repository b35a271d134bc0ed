package game

// Outcome of a single shot.
type Outcome uint8

const (
	OutcomeAlreadyShot Outcome = iota
	OutcomeMiss
	OutcomeHit
	OutcomeHitAndSunk
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMiss:
		return "Miss!"
	case OutcomeHit:
		return "Hit!"
	case OutcomeHitAndSunk:
		return "Hit and sunk!"
	default:
		return "Position already shot!"
	}
}

// IsHit is true for both OutcomeHit and OutcomeHitAndSunk.
func (o Outcome) IsHit() bool { return o == OutcomeHit || o == OutcomeHitAndSunk }

// ShotResult carries the outcome and, for hits, the fleet index of the ship struck.
type ShotResult struct {
	Outcome Outcome
	Ship    int
}

// TakeShot resolves a shot at c against the board and fleet, recording it on shots.
// Only shots and the struck ship's hits change; the ownership board is never touched.
func TakeShot(b *Board, fleet Fleet, shots *ShotGrid, c Coord) ShotResult {
	if shots.Mark(c) != Unknown {
		return ShotResult{Outcome: OutcomeAlreadyShot, Ship: -1}
	}
	idx, ok := b.ShipAt(c)
	if !ok {
		shots.SetMark(c, Miss)
		return ShotResult{Outcome: OutcomeMiss, Ship: -1}
	}
	ship := fleet[idx]
	shots.SetMark(c, Hit)
	ship.Hits = append(ship.Hits, c)
	if !ship.IsSunk() {
		return ShotResult{Outcome: OutcomeHit, Ship: idx}
	}
	for _, sc := range ship.Cells {
		shots.SetMark(sc, Sunk)
	}
	return ShotResult{Outcome: OutcomeHitAndSunk, Ship: idx}
}
