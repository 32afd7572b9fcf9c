package chess

// Perft counts the leaf nodes of the legal move tree to the given depth.
// The state is restored before returning.
func Perft(g *GameState, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := g.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		g.ApplyUnchecked(m)
		nodes += Perft(g, depth-1)
		g.Undo()
	}
	return nodes
}

// PerftDivide returns the perft count below each root move, keyed by notation.
func PerftDivide(g *GameState, depth int) map[string]uint64 {
	div := make(map[string]uint64)
	if depth <= 0 {
		return div
	}
	for _, m := range g.LegalMoves() {
		g.ApplyUnchecked(m)
		div[m.Notation()] = Perft(g, depth-1)
		g.Undo()
	}
	return div
}
