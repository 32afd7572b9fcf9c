package chess

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
)

// GameState owns a board, the side to move and the move history. It is not
// safe for concurrent use; give each goroutine its own instance or guard it
// externally.
type GameState struct {
	board     Board
	side      Color
	startSide Color
	startMove int
	log       []Move
	whiteKing Square
	blackKing Square

	// recomputed by refresh whenever the position changes
	analysis Analysis
	legal    []Move
	fresh    bool

	logger zerolog.Logger
}

// Option configures a GameState.
type Option func(*GameState)

// WithLogger traces applied and undone moves at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *GameState) {
		g.logger = logger
	}
}

// NewGame returns the standard starting position with white to move.
func NewGame(opts ...Option) *GameState {
	g, err := NewGameFromBoard(NewBoard(), White, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// NewGameFromBoard starts a game from an arbitrary position. The board must
// hold exactly one king of each color, and the side not to move must not be
// in check.
func NewGameFromBoard(b Board, side Color, opts ...Option) (*GameState, error) {
	for _, c := range [2]Color{White, Black} {
		if n := b.Count(c, King); n != 1 {
			return nil, fmt.Errorf("%w: %d %s kings", ErrInvalidPosition, n, c)
		}
	}
	g := &GameState{
		board:     b,
		side:      side,
		startSide: side,
		startMove: 1,
		logger:    zerolog.Nop(),
	}
	g.whiteKing, _ = b.FindKing(White)
	g.blackKing, _ = b.FindKing(Black)
	for _, opt := range opts {
		opt(g)
	}

	other := side.Opposite()
	if Analyze(&g.board, g.KingSquare(other), other).InCheck {
		return nil, fmt.Errorf("%w: %s to move but %s is in check", ErrInvalidPosition, side, other)
	}
	return g, nil
}

// Board returns a copy of the current board.
func (g *GameState) Board() Board {
	return g.board
}

// SideToMove returns the color whose turn it is.
func (g *GameState) SideToMove() Color {
	return g.side
}

// KingSquare returns the cached location of c's king.
func (g *GameState) KingSquare(c Color) Square {
	if c == White {
		return g.whiteKing
	}
	return g.blackKing
}

// MoveLog returns a copy of the applied moves, oldest first.
func (g *GameState) MoveLog() []Move {
	return slices.Clone(g.log)
}

// Len returns the number of moves in the log.
func (g *GameState) Len() int {
	return len(g.log)
}

// LegalMoves returns the legal moves for the side to move, in board scan order.
func (g *GameState) LegalMoves() []Move {
	g.refresh()
	return slices.Clone(g.legal)
}

// InCheck reports whether the side to move is in check.
func (g *GameState) InCheck() bool {
	g.refresh()
	return g.analysis.InCheck
}

// Checks returns the pieces currently giving check.
func (g *GameState) Checks() []Check {
	g.refresh()
	return slices.Clone(g.analysis.Checks)
}

// Pins returns the pinned pieces of the side to move and their pin axes.
func (g *GameState) Pins() map[Square]Direction {
	g.refresh()
	pins := make(map[Square]Direction, len(g.analysis.Pins))
	for sq, d := range g.analysis.Pins {
		pins[sq] = d
	}
	return pins
}

// refresh recomputes the check picture and the legal move set if the
// position changed since the last query.
func (g *GameState) refresh() {
	if g.fresh {
		return
	}
	king := g.KingSquare(g.side)
	g.analysis = Analyze(&g.board, king, g.side)

	switch {
	case !g.analysis.InCheck:
		g.legal = PseudoLegal(&g.board, g.side, g.analysis)
	case len(g.analysis.Checks) == 1:
		block := BlockSquares(king, g.analysis.Checks[0])
		moves := PseudoLegal(&g.board, g.side, g.analysis)
		g.legal = moves[:0]
		for _, m := range moves {
			if m.PieceMoved.Kind == King || slices.Contains(block, m.End) {
				g.legal = append(g.legal, m)
			}
		}
	default:
		// double check: only the king can move
		g.legal = KingMoves(&g.board, king, g.side)
	}
	g.fresh = true
}

// FindMove returns the legal move from start to end.
func (g *GameState) FindMove(start, end Square) (Move, error) {
	if !start.Valid() || !end.Valid() {
		return Move{}, fmt.Errorf("%w: %v to %v", ErrInvalidSquare, start, end)
	}
	candidate := NewMove(start, end, &g.board)
	g.refresh()
	for _, m := range g.legal {
		if m.Equal(candidate) {
			return m, nil
		}
	}
	return Move{}, fmt.Errorf("%w: %s", ErrIllegalMove, candidate.Notation())
}

// Apply plays m, which must be one of the current legal moves.
func (g *GameState) Apply(m Move) error {
	g.refresh()
	idx := slices.IndexFunc(g.legal, m.Equal)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m.Notation())
	}
	g.ApplyUnchecked(g.legal[idx])
	return nil
}

// ApplyUnchecked plays m without checking it against the legal set. m must
// have been generated from the current position.
func (g *GameState) ApplyUnchecked(m Move) {
	g.board.Set(m.Start, Empty)
	g.board.Set(m.End, m.PieceMoved)
	g.log = append(g.log, m)
	g.side = g.side.Opposite()
	if m.PieceMoved.Kind == King {
		g.setKing(m.PieceMoved.Color, m.End)
	}
	g.fresh = false

	g.logger.Debug().
		Str("move", m.Notation()).
		Str("piece", m.PieceMoved.String()).
		Str("captured", m.PieceCaptured.String()).
		Int("ply", len(g.log)).
		Msg("Move applied")
}

// Undo takes back the last move. It reports false if there was nothing to undo.
func (g *GameState) Undo() bool {
	if len(g.log) == 0 {
		return false
	}
	m := g.log[len(g.log)-1]
	g.log = g.log[:len(g.log)-1]

	g.board.Set(m.Start, m.PieceMoved)
	g.board.Set(m.End, m.PieceCaptured)
	g.side = g.side.Opposite()
	if m.PieceMoved.Kind == King {
		g.setKing(m.PieceMoved.Color, m.Start)
	}
	g.fresh = false

	g.logger.Debug().Str("move", m.Notation()).Int("ply", len(g.log)).Msg("Move undone")
	return true
}

func (g *GameState) setKing(c Color, sq Square) {
	if c == White {
		g.whiteKing = sq
	} else {
		g.blackKing = sq
	}
}
