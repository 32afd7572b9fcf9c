package chess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPseudoLegalInitialOrder(t *testing.T) {
	b := NewBoard()
	moves := PseudoLegal(&b, White, Analyze(&b, sq(7, 4), White))
	require.Len(t, moves, 20)

	names := notations(moves)
	assert.Equal(t, []string{"h2h3", "h2h4", "g2g3", "g2g4"}, names[:4])
	assert.Equal(t, []string{"g1h3", "g1f3", "b1c3", "b1a3"}, names[16:])
}

func TestPawnMoves(t *testing.T) {
	t.Run("blocked pawn has no advance", func(t *testing.T) {
		g := position(t, White, map[Square]Piece{
			sq(7, 4): wK, sq(0, 0): bK,
			sq(6, 2): wP, sq(5, 2): bN,
		})
		assert.Empty(t, movesFrom(g.LegalMoves(), sq(6, 2)))
	})

	t.Run("double step needs both squares empty", func(t *testing.T) {
		g := position(t, White, map[Square]Piece{
			sq(7, 4): wK, sq(0, 0): bK,
			sq(6, 2): wP, sq(4, 2): bN,
		})
		moves := movesFrom(g.LegalMoves(), sq(6, 2))
		assert.Equal(t, []string{"f2f3"}, notations(moves))
	})

	t.Run("captures only enemy pieces", func(t *testing.T) {
		g := position(t, Black, map[Square]Piece{
			sq(7, 7): wK, sq(0, 4): bK,
			sq(1, 3): bP, sq(2, 2): wN, sq(2, 4): bN,
		})
		moves := movesFrom(g.LegalMoves(), sq(1, 3))
		assert.Equal(t, []string{"e7e6", "e7e5", "e7f6"}, notations(moves))
		assert.True(t, moves[2].IsCapture())
	})

	t.Run("pawn on the last rank stays put", func(t *testing.T) {
		g := position(t, White, map[Square]Piece{
			sq(7, 4): wK, sq(0, 0): bK,
			sq(0, 6): wP,
		})
		assert.Empty(t, movesFrom(g.LegalMoves(), sq(0, 6)))
	})
}

func TestPinnedPawnMovesAlongAxisOnly(t *testing.T) {
	g := position(t, White, map[Square]Piece{
		sq(7, 4): wK, sq(0, 0): bK,
		sq(6, 3): wP, sq(5, 2): bB, sq(5, 4): bN,
	})

	moves := movesFrom(g.LegalMoves(), sq(6, 3))
	require.Len(t, moves, 1)
	assert.Equal(t, sq(5, 2), moves[0].End)
}

func TestPawnPinnedOnFileStillAdvances(t *testing.T) {
	// the king is in front of the pawn: the pin axis points backwards
	g := position(t, White, map[Square]Piece{
		sq(0, 4): wK, sq(7, 0): bK,
		sq(3, 4): wP, sq(7, 4): bR,
	})

	moves := movesFrom(g.LegalMoves(), sq(3, 4))
	require.Len(t, moves, 1)
	assert.Equal(t, sq(2, 4), moves[0].End)
}

func TestPinnedKnightHasNoMoves(t *testing.T) {
	g := position(t, White, map[Square]Piece{
		sq(7, 4): wK, sq(0, 0): bK,
		sq(6, 4): wN, sq(0, 4): bR,
	})

	_, pinned := g.Pins()[sq(6, 4)]
	require.True(t, pinned)
	assert.Empty(t, movesFrom(g.LegalMoves(), sq(6, 4)))
}

func TestPinnedRookStaysOnFile(t *testing.T) {
	g := position(t, White, map[Square]Piece{
		sq(7, 4): wK, sq(0, 0): bK,
		sq(5, 4): wR, sq(0, 4): bQ,
		sq(7, 7): wR,
	})

	pinned := movesFrom(g.LegalMoves(), sq(5, 4))
	require.Len(t, pinned, 6)
	for _, m := range pinned {
		assert.Equal(t, 4, m.End.Col, "pinned rook left the file with %s", m)
	}
	assert.True(t, hasMove(pinned, sq(5, 4), sq(0, 4)), "capturing the pinner is allowed")
	assert.True(t, hasMove(pinned, sq(5, 4), sq(6, 4)))

	free := movesFrom(g.LegalMoves(), sq(7, 7))
	assert.True(t, hasMove(free, sq(7, 7), sq(0, 7)))
	assert.True(t, hasMove(free, sq(7, 7), sq(7, 5)))
}

func TestPinnedQueenSlidesOnDiagonal(t *testing.T) {
	g := position(t, White, map[Square]Piece{
		sq(7, 4): wK, sq(0, 0): bK,
		sq(5, 2): wQ, sq(3, 0): bB,
	})

	moves := movesFrom(g.LegalMoves(), sq(5, 2))
	assert.ElementsMatch(t, []Square{sq(4, 1), sq(3, 0), sq(6, 3)}, endSquares(moves))
}

func TestKingDoesNotStepIntoAttack(t *testing.T) {
	g := position(t, White, map[Square]Piece{
		sq(7, 4): wK, sq(0, 0): bK,
		sq(0, 3): bR, sq(5, 6): bP,
	})

	moves := movesFrom(g.LegalMoves(), sq(7, 4))
	// column 3 is covered by the rook and (6,5) by the pawn
	assert.ElementsMatch(t, []Square{sq(6, 4), sq(7, 5)}, endSquares(moves))
}

func TestKingCapturesOnlyUndefendedPieces(t *testing.T) {
	g := position(t, White, map[Square]Piece{
		sq(7, 4): wK, sq(0, 0): bK,
		sq(6, 4): bR, sq(6, 3): bN, sq(2, 3): bR,
	})

	moves := movesFrom(g.LegalMoves(), sq(7, 4))
	assert.True(t, hasMove(moves, sq(7, 4), sq(6, 4)), "rook on (6,4) is undefended")
	assert.False(t, hasMove(moves, sq(7, 4), sq(6, 3)), "knight on (6,3) is defended by the rook on (2,3)")
}

func endSquares(moves []Move) []Square {
	out := make([]Square, len(moves))
	for i, m := range moves {
		out[i] = m.End
	}
	return out
}
