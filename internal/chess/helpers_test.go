package chess

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	wK = NewPiece(White, King)
	wQ = NewPiece(White, Queen)
	wR = NewPiece(White, Rook)
	wB = NewPiece(White, Bishop)
	wN = NewPiece(White, Knight)
	wP = NewPiece(White, Pawn)
	bK = NewPiece(Black, King)
	bQ = NewPiece(Black, Queen)
	bR = NewPiece(Black, Rook)
	bB = NewPiece(Black, Bishop)
	bN = NewPiece(Black, Knight)
	bP = NewPiece(Black, Pawn)
)

func sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

// position builds a game from explicit placements.
func position(t *testing.T, side Color, pieces map[Square]Piece) *GameState {
	t.Helper()
	var b Board
	for s, p := range pieces {
		b.Set(s, p)
	}
	g, err := NewGameFromBoard(b, side)
	require.NoError(t, err)
	return g
}

func movesFrom(moves []Move, from Square) []Move {
	var out []Move
	for _, m := range moves {
		if m.Start == from {
			out = append(out, m)
		}
	}
	return out
}

func notations(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.Notation()
	}
	return out
}

func hasMove(moves []Move, from, to Square) bool {
	for _, m := range moves {
		if m.Start == from && m.End == to {
			return true
		}
	}
	return false
}
