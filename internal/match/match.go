// Package match drives one human-versus-computer game: setup, alternating turns, win
// detection and end-of-game statistics.
package match

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"batnav/internal/ai"
	"batnav/internal/game"
)

type Phase uint8

const (
	Setup Phase = iota
	Playing
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case GameOver:
		return "over"
	default:
		return "setup"
	}
}

type Side uint8

const (
	Human Side = iota
	Computer
)

func (s Side) String() string {
	if s == Computer {
		return "computer"
	}
	return "human"
}

// Fleetside is one side's ownership board, ships, and the shots fired at it.
type Fleetside struct {
	Board    *game.Board
	Fleet    game.Fleet
	Incoming *game.ShotGrid
}

func newFleetside(size int) *Fleetside {
	return &Fleetside{Board: game.NewBoard(size), Incoming: game.NewShotGrid(size)}
}

// Referee vouches for the computer's answers to the human's shots.
type Referee interface {
	Commitment() string
	Attest(c game.Coord, hit bool) error
}

var (
	ErrWrongPhase  = errors.New("action not allowed in this phase")
	ErrNotYourTurn = errors.New("not your turn")
	ErrBadSize     = fmt.Errorf("grid size must be between %d and %d", game.MinSize, game.MaxSize)
)

type Match struct {
	ID       string
	Size     int
	Phase    Phase
	Turn     int
	Human    *Fleetside
	Computer *Fleetside
	Winner   Side // meaningful once Phase is GameOver

	next    Side
	ai      *ai.Targeter
	rng     *rand.Rand
	referee Referee
	log     zerolog.Logger
}

// New creates a match in Setup with the computer's fleet already placed at random.
func New(size int, rng *rand.Rand, log zerolog.Logger) (*Match, error) {
	if size < game.MinSize || size > game.MaxSize {
		return nil, ErrBadSize
	}
	m := &Match{
		ID:       uuid.NewString(),
		Size:     size,
		Phase:    Setup,
		Turn:     1,
		Human:    newFleetside(size),
		Computer: newFleetside(size),
		ai:       ai.New(rng),
		rng:      rng,
	}
	m.log = log.With().Str("match", m.ID[:8]).Logger()

	fleet, err := game.PlaceRandom(m.Computer.Board, nil, game.FleetConfig(size), rng)
	if err != nil {
		return nil, err
	}
	m.Computer.Fleet = fleet
	m.log.Debug().Int("size", size).Ints("fleet", game.FleetConfig(size)).Msg("computer fleet placed")
	return m, nil
}

// SetReferee attaches the attestation hook for the computer's answers.
func (m *Match) SetReferee(r Referee) { m.referee = r }

func (m *Match) Referee() Referee { return m.referee }

// DeployManual places the human fleet interactively.
func (m *Match) DeployManual(p game.Prompter) error {
	if m.Phase != Setup {
		return ErrWrongPhase
	}
	fleet, err := game.PlaceManual(m.Human.Board, m.Human.Fleet, game.FleetConfig(m.Size), m.rng, p)
	m.Human.Fleet = fleet
	if err != nil {
		return err
	}
	m.start()
	return nil
}

// DeployRandom places the human fleet automatically.
func (m *Match) DeployRandom() error {
	if m.Phase != Setup {
		return ErrWrongPhase
	}
	fleet, err := game.PlaceRandom(m.Human.Board, m.Human.Fleet, game.FleetConfig(m.Size), m.rng)
	m.Human.Fleet = fleet
	if err != nil {
		return err
	}
	m.start()
	return nil
}

func (m *Match) start() {
	m.Phase = Playing
	m.next = Human
	m.log.Info().Int("size", m.Size).Int("ships", len(m.Human.Fleet)).Msg("battle started")
}

// Next reports whose turn it is.
func (m *Match) Next() Side { return m.next }

// FireHuman resolves the human's shot at c. An already shot cell returns ErrAlreadyShot and
// leaves the turn with the human. A referee failure is returned alongside the valid result.
func (m *Match) FireHuman(c game.Coord) (game.ShotResult, error) {
	if m.Phase != Playing {
		return game.ShotResult{}, ErrWrongPhase
	}
	if m.next != Human {
		return game.ShotResult{}, ErrNotYourTurn
	}
	if !m.Computer.Board.In(c) {
		return game.ShotResult{}, game.ErrOutOfBounds
	}
	res := game.TakeShot(m.Computer.Board, m.Computer.Fleet, m.Computer.Incoming, c)
	if res.Outcome == game.OutcomeAlreadyShot {
		return res, game.ErrAlreadyShot
	}
	m.log.Debug().Str("at", c.Label(m.Size)).Stringer("outcome", res.Outcome).Msg("human shot")

	var refErr error
	if m.referee != nil {
		if err := m.referee.Attest(c, res.Outcome.IsHit()); err != nil {
			m.log.Error().Err(err).Str("at", c.Label(m.Size)).Msg("shot attestation failed")
			refErr = err
		}
	}
	if m.Computer.Fleet.AllSunk() {
		m.finish(Human)
	} else {
		m.next = Computer
	}
	return res, refErr
}

// FireComputer lets the targeting AI take its shot.
func (m *Match) FireComputer() (game.Coord, game.ShotResult, error) {
	if m.Phase != Playing {
		return game.Coord{}, game.ShotResult{}, ErrWrongPhase
	}
	if m.next != Computer {
		return game.Coord{}, game.ShotResult{}, ErrNotYourTurn
	}
	mode := m.ai.Mode()
	c := m.ai.Next(m.Human.Incoming, m.Human.Fleet.RemainingLengths())
	res := game.TakeShot(m.Human.Board, m.Human.Fleet, m.Human.Incoming, c)
	m.ai.Observe(c, res.Outcome)
	m.log.Debug().Str("at", c.Label(m.Size)).Stringer("mode", mode).Stringer("outcome", res.Outcome).Msg("computer shot")

	if m.Human.Fleet.AllSunk() {
		m.finish(Computer)
	} else {
		m.next = Human
		m.Turn++
	}
	return c, res, nil
}

func (m *Match) finish(w Side) {
	m.Phase = GameOver
	m.Winner = w
	st := m.Stats(w)
	m.log.Info().Stringer("winner", w).Int("shots", st.Shots).Float64("accuracy", st.Accuracy).Msg("game over")
}

// Stats summarises the shots fired by side s.
func (m *Match) Stats(s Side) game.Stats {
	if s == Human {
		return game.StatsOf(m.Computer.Incoming)
	}
	return game.StatsOf(m.Human.Incoming)
}

// AIMode exposes the targeting phase the computer is in.
func (m *Match) AIMode() ai.Mode { return m.ai.Mode() }

const (
	consonants = "BCDFGHJKLMNPQRSTVWXYZ"
	vowels     = "AEIOU"
)

// ComputerName builds a leaderboard name for the computer: AI- then c1 v1 c2 v2 c2 v2.
func ComputerName(rng *rand.Rand) string {
	c1 := consonants[rng.Intn(len(consonants))]
	c2 := consonants[rng.Intn(len(consonants))]
	v1 := vowels[rng.Intn(len(vowels))]
	v2 := vowels[rng.Intn(len(vowels))]
	return fmt.Sprintf("AI-%c%c%c%c%c%c", c1, v1, c2, v2, c2, v2)
}
