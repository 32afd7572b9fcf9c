package chess

import "fmt"

// MakeMove plays the move between two named squares, e.g. "d2" and "d4".
func (g *GameState) MakeMove(from, to string) (*MoveResult, error) {
	fromSquare, err := ParseSquare(from)
	if err != nil {
		return nil, fmt.Errorf("invalid origin: %w", err)
	}
	toSquare, err := ParseSquare(to)
	if err != nil {
		return nil, fmt.Errorf("invalid destination: %w", err)
	}

	move, err := g.FindMove(fromSquare, toSquare)
	if err != nil {
		return nil, err
	}
	if err := g.Apply(move); err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	replies := g.LegalMoves()
	result := &MoveResult{
		From:       from,
		To:         to,
		Notation:   move.Notation(),
		Piece:      move.PieceMoved.String(),
		FEN:        g.FEN(),
		SideToMove: g.SideToMove().String(),
		Check:      g.InCheck(),
		LegalMoves: len(replies),
	}
	if move.IsCapture() {
		result.Captured = move.PieceCaptured.String()
	}
	return result, nil
}

// Material sums the standard values of each side's pieces.
func (g *GameState) Material() MaterialCount {
	var count MaterialCount
	for _, row := range g.board.squares {
		for _, p := range row {
			if p.IsEmpty() {
				continue
			}
			if p.Color == White {
				count.White += StandardPieceValues[p.Kind]
			} else {
				count.Black += StandardPieceValues[p.Kind]
			}
		}
	}
	return count
}

// MaterialBalance returns white's material minus black's.
func (g *GameState) MaterialBalance() int {
	count := g.Material()
	return count.White - count.Black
}
