package game

import "errors"

var (
	// ErrSourceUnavailable means the position source could not be opened or read.
	ErrSourceUnavailable = errors.New("position source unavailable")
	// ErrMalformedInput means the stream ended before 64 cells and a turn marker.
	ErrMalformedInput = errors.New("malformed position")

	ErrIllegalMove   = errors.New("illegal move")
	ErrGameOver      = errors.New("game is over")
	ErrNothingToUndo = errors.New("nothing to undo")
)
