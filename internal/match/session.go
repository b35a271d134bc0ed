package match

import (
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"batnav/internal/console"
	"batnav/internal/game"
	"batnav/internal/leaderboard"
)

// UI is the interactive side of a console session.
type UI interface {
	game.Prompter
	Show(text string)
}

// Session plays one console game and records the winner. A quit at any prompt ends Run with
// game.ErrQuit and nothing is written to Store.
type Session struct {
	UI    UI
	Store leaderboard.Store
	Rng   *rand.Rand
	Log   zerolog.Logger
	Limit int              // leaderboard entries kept per size
	Now   func() time.Time // defaults to time.Now

	// NewReferee, when set, is asked for a referee once the computer fleet is placed.
	NewReferee func(m *Match) (Referee, error)

	current *Match
}

// Current is the match being played, nil before the grid size is chosen.
func (s *Session) Current() *Match { return s.current }

func (s *Session) Run() error {
	lb := s.Store.Load()

	size, err := s.askSize()
	if err != nil {
		return err
	}
	m, err := New(size, s.Rng, s.Log)
	if err != nil {
		return err
	}
	s.current = m
	if s.NewReferee != nil {
		r, err := s.NewReferee(m)
		if err != nil {
			return err
		}
		m.SetReferee(r)
		s.UI.Say("The computer committed to its fleet: %s", r.Commitment())
	}
	s.UI.Say("You will play on a %dx%d grid with %d ships.", size, size, len(game.FleetConfig(size)))

	if err := m.DeployManual(s.UI); err != nil {
		return err
	}
	s.UI.Say("\nGreat! Your fleet is deployed. Let the battle begin!")

	for m.Phase == Playing {
		if err := s.humanTurn(m); err != nil {
			return err
		}
		if m.Phase != Playing {
			break
		}
		s.UI.Say("\n--- Computer's turn ---")
		c, res, err := m.FireComputer()
		if err != nil {
			return err
		}
		s.UI.Say("The computer fires at %s. Result: >> %s <<", c.Label(size), res.Outcome)
	}
	return s.conclude(m, lb)
}

func (s *Session) askSize() (int, error) {
	for {
		in, err := s.UI.Ask("Grid size (8 to 26): ")
		if err != nil {
			return 0, err
		}
		if in == "" {
			continue
		}
		n, err := strconv.Atoi(in)
		if err != nil {
			s.UI.Say("Invalid input. Enter a number.")
			continue
		}
		if n < game.MinSize || n > game.MaxSize {
			s.UI.Say("Invalid size. Enter a number between %d and %d.", game.MinSize, game.MaxSize)
			continue
		}
		return n, nil
	}
}

func (s *Session) humanTurn(m *Match) error {
	s.UI.Show(console.DualGrid(
		console.TargetView(m.Computer.Incoming),
		console.FleetView(m.Human.Board, m.Human.Fleet, m.Human.Incoming),
	))
	for {
		prompt := console.StatusPrompt(m.Turn, m.Human.Fleet, m.Computer.Fleet, m.Stats(Human), m.Stats(Computer))
		in, err := s.UI.Ask(prompt)
		if err != nil {
			return err
		}
		if in == "" {
			continue
		}
		c, err := game.ParseCoord(in, m.Size)
		if err != nil {
			s.UI.Say("Error: %v. Try again.", err)
			continue
		}
		res, err := m.FireHuman(c)
		if errors.Is(err, game.ErrAlreadyShot) {
			s.UI.Say("%v Try again.", res.Outcome)
			continue
		}
		if err != nil {
			s.UI.Say("Warning: %v", err)
		}
		s.UI.Say("Your shot: >> %s <<", res.Outcome)
		return nil
	}
}

func (s *Session) conclude(m *Match, lb leaderboard.Leaderboard) error {
	var name string
	if m.Winner == Human {
		s.UI.Say("\nCONGRATULATIONS! You won!")
		for name == "" {
			in, err := s.UI.Ask("Enter your name for the leaderboard: ")
			if err != nil {
				return err
			}
			name = in
			if name == "" {
				s.UI.Say("The name cannot be empty.")
			}
		}
	} else {
		s.UI.Say("\nTOO BAD! The computer won.")
		name = ComputerName(s.Rng)
		s.UI.Say("The computer enters the leaderboard as: %s", name)
	}

	entry, rank := Record(lb, m, name, s.now(), s.Limit)
	s.Log.Info().Str("name", entry.Name).Int("shots", entry.Shots).Int("rank", rank).Msg("result recorded")
	s.UI.Show(lb.Table(m.Size))
	if err := s.Store.Save(lb); err != nil {
		return err
	}
	s.UI.Say("\nLeaderboard saved. Thanks for playing!")
	return nil
}

func (s *Session) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Record adds the winner of a finished match to lb and returns the entry and its rank
// (0 when it did not make the list).
func Record(lb leaderboard.Leaderboard, m *Match, name string, now time.Time, limit int) (leaderboard.Entry, int) {
	st := m.Stats(m.Winner)
	e := leaderboard.NewEntry(name, st.Shots, st.Accuracy, now)
	return e, lb.Record(m.Size, e, limit)
}
