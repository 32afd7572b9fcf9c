package chess

import (
	"fmt"
	"strings"
)

// BoardSize is the number of rows and columns on the board.
const BoardSize = 8

// Square addresses a board cell. Row 0 is black's back rank.
type Square struct {
	Row int
	Col int
}

// Direction is a unit step (or a knight leap) on the board.
type Direction struct {
	DRow int
	DCol int
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return Direction{DRow: -d.DRow, DCol: -d.DCol}
}

// alongAxis reports whether d lies on the line described by axis.
func alongAxis(axis, d Direction) bool {
	return d == axis || d == axis.Opposite()
}

// Valid reports whether the square lies on the board.
func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

// Add returns the square n steps away in direction d. The result may be off the board.
func (s Square) Add(d Direction, n int) Square {
	return Square{Row: s.Row + d.DRow*n, Col: s.Col + d.DCol*n}
}

// Files and ranks are indexed by column and row respectively.
const (
	files = "hgfedcba"
	ranks = "87654321"
)

// String returns the algebraic name of the square, e.g. "d2" for (6,4).
func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return string([]byte{files[s.Col], ranks[s.Row]})
}

// ParseSquare is the inverse of Square.String.
func ParseSquare(name string) (Square, error) {
	if len(name) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	col := strings.IndexByte(files, name[0])
	row := strings.IndexByte(ranks, name[1])
	if col < 0 || row < 0 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	return Square{Row: row, Col: col}, nil
}
