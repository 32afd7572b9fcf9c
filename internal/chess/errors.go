package chess

import "errors"

var (
	// ErrInvalidSquare is returned for coordinates or names outside the board.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrIllegalMove is returned when a move is not in the current legal set.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidPosition is returned when a board cannot be played from.
	ErrInvalidPosition = errors.New("invalid position")
)
