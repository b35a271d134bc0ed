package game

import "errors"

var (
	ErrInvalidFormat    = errors.New("invalid format: use a letter and a number (e.g. A1)")
	ErrOutOfBounds      = errors.New("coordinates out of the grid")
	ErrIllegalPlacement = errors.New("illegal placement: the ship would leave the grid or touch another ship")
	ErrAlreadyShot      = errors.New("position already shot")

	// ErrQuit is returned by prompters when the player asks to leave. It is not a failure:
	// callers unwind without persisting anything.
	ErrQuit = errors.New("quit requested")
)
