package chess

var (
	rookDirections   = [4]Direction{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopDirections = [4]Direction{{-1, -1}, {1, 1}, {1, -1}, {-1, 1}}
	kingSteps        = [8]Direction{
		{-1, -1}, {-1, 0}, {-1, 1}, {0, -1},
		{0, 1}, {1, -1}, {1, 0}, {1, 1},
	}
)

// pawnForward is the row step of a pawn of color c.
func pawnForward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

// generator appends pseudo-legal moves for side. Pins are read from the
// analysis and never modified.
type generator struct {
	board    *Board
	side     Color
	analysis Analysis
	moves    []Move
}

// PseudoLegal returns every pseudo-legal move for side, scanning the board
// row by row. Pinned pieces are restricted to their pin axis and king moves
// are checked against attacks on the destination square.
func PseudoLegal(b *Board, side Color, a Analysis) []Move {
	g := &generator{board: b, side: side, analysis: a, moves: make([]Move, 0, 48)}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			sq := Square{Row: row, Col: col}
			if p := b.At(sq); p.Is(side) {
				g.piece(p.Kind, sq)
			}
		}
	}
	return g.moves
}

// KingMoves returns the moves of side's king standing on sq.
func KingMoves(b *Board, sq Square, side Color) []Move {
	g := &generator{board: b, side: side}
	g.king(sq)
	return g.moves
}

func (g *generator) piece(k Kind, sq Square) {
	switch k {
	case Pawn:
		g.pawn(sq)
	case Knight:
		g.knight(sq)
	case Rook:
		g.slide(sq, rookDirections[:])
	case Bishop:
		g.slide(sq, bishopDirections[:])
	case Queen:
		g.slide(sq, rookDirections[:])
		g.slide(sq, bishopDirections[:])
	case King:
		g.king(sq)
	}
}

func (g *generator) add(from, to Square) {
	g.moves = append(g.moves, NewMove(from, to, g.board))
}

// allowed reports whether the piece on sq may move along d given its pin.
func (g *generator) allowed(sq Square, d Direction) bool {
	axis, pinned := g.analysis.Pinned(sq)
	return !pinned || alongAxis(axis, d)
}

func (g *generator) pawn(sq Square) {
	fwd := pawnForward(g.side)
	enemy := g.side.Opposite()

	ahead := sq.Add(Direction{fwd, 0}, 1)
	if ahead.Valid() && g.board.At(ahead).IsEmpty() && g.allowed(sq, Direction{fwd, 0}) {
		g.add(sq, ahead)
		two := sq.Add(Direction{fwd, 0}, 2)
		if sq.Row == pawnStartRow(g.side) && g.board.At(two).IsEmpty() {
			g.add(sq, two)
		}
	}

	for _, dc := range [2]int{-1, 1} {
		d := Direction{fwd, dc}
		target := sq.Add(d, 1)
		if !target.Valid() || !g.board.At(target).Is(enemy) {
			continue
		}
		if g.allowed(sq, d) {
			g.add(sq, target)
		}
	}
}

func (g *generator) knight(sq Square) {
	if _, pinned := g.analysis.Pinned(sq); pinned {
		return
	}
	for _, leap := range knightLeaps {
		target := sq.Add(leap, 1)
		if target.Valid() && !g.board.At(target).Is(g.side) {
			g.add(sq, target)
		}
	}
}

func (g *generator) slide(sq Square, dirs []Direction) {
	enemy := g.side.Opposite()
	for _, d := range dirs {
		if !g.allowed(sq, d) {
			continue
		}
		for i := 1; i < BoardSize; i++ {
			target := sq.Add(d, i)
			if !target.Valid() {
				break
			}
			p := g.board.At(target)
			if p.IsEmpty() {
				g.add(sq, target)
				continue
			}
			if p.Is(enemy) {
				g.add(sq, target)
			}
			break
		}
	}
}

// king keeps a step only if the king would not be in check on the target.
// The hypothetical square is passed to Analyze; nothing is moved.
func (g *generator) king(sq Square) {
	for _, step := range kingSteps {
		target := sq.Add(step, 1)
		if !target.Valid() || g.board.At(target).Is(g.side) {
			continue
		}
		if !Analyze(g.board, target, g.side).InCheck {
			g.add(sq, target)
		}
	}
}
