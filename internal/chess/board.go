package chess

import (
	"fmt"
	"strings"
)

// Board is the 8x8 grid. The zero value is an empty board.
type Board struct {
	squares [BoardSize][BoardSize]Piece
}

var backRank = [BoardSize]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns a board in the standard starting layout.
func NewBoard() Board {
	var b Board
	for col, kind := range backRank {
		b.squares[0][col] = NewPiece(Black, kind)
		b.squares[1][col] = NewPiece(Black, Pawn)
		b.squares[6][col] = NewPiece(White, Pawn)
		b.squares[7][col] = NewPiece(White, kind)
	}
	return b
}

// At returns the contents of sq. It panics if sq is off the board.
func (b *Board) At(sq Square) Piece {
	mustBeOnBoard(sq)
	return b.squares[sq.Row][sq.Col]
}

// Set places p on sq. It panics if sq is off the board.
func (b *Board) Set(sq Square, p Piece) {
	mustBeOnBoard(sq)
	if p.IsEmpty() {
		p = Empty
	}
	b.squares[sq.Row][sq.Col] = p
}

func mustBeOnBoard(sq Square) {
	if !sq.Valid() {
		panic(fmt.Errorf("%w: (%d,%d)", ErrInvalidSquare, sq.Row, sq.Col))
	}
}

// Grid returns a copy of the board contents indexed [row][col].
func (b *Board) Grid() [BoardSize][BoardSize]Piece {
	return b.squares
}

// FindKing returns the square of c's king.
func (b *Board) FindKing(c Color) (Square, bool) {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if p := b.squares[row][col]; p.Kind == King && p.Color == c {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return Square{}, false
}

// Count returns how many pieces of color c and kind k are on the board.
func (b *Board) Count(c Color, k Kind) int {
	n := 0
	for row := range b.squares {
		for _, p := range b.squares[row] {
			if p.Kind == k && p.Color == c {
				n++
			}
		}
	}
	return n
}

// String draws the board one row per line using piece codes.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(b.squares[row][col].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
