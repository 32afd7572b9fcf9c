package chess

// Ray directions cast from the king. The first four are orthogonal, the last
// four diagonal; Analyze relies on that split.
var kingRays = [8]Direction{
	{-1, 0}, {0, -1}, {1, 0}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

var knightLeaps = [8]Direction{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

// Check is one enemy piece giving check.
type Check struct {
	Attacker Square
	// Dir points from the king toward the attacker. For a knight it is the leap.
	Dir Direction
	// Leap is set for knight checks, which cannot be blocked.
	Leap bool
}

// Analysis is the check and pin picture for one king square.
type Analysis struct {
	InCheck bool
	Checks  []Check
	// Pins maps each pinned friendly piece to the axis from the king through it.
	Pins map[Square]Direction
}

// Pinned returns the pin axis of the piece on sq, if it is pinned.
func (a Analysis) Pinned(sq Square) (Direction, bool) {
	d, ok := a.Pins[sq]
	return d, ok
}

// Analyze computes checks against, and pins toward, a king of color side
// standing on king. The square does not need to hold the king: king move
// generation passes candidate destinations, and the real king is ignored as a
// blocker while casting rays.
func Analyze(b *Board, king Square, side Color) Analysis {
	a := Analysis{Pins: make(map[Square]Direction)}
	enemy := side.Opposite()

	for j, d := range kingRays {
		diagonal := j >= 4
		var candidate Square
		pending := false

		for i := 1; i < BoardSize; i++ {
			sq := king.Add(d, i)
			if !sq.Valid() {
				break
			}
			p := b.At(sq)
			if p.IsEmpty() {
				continue
			}
			if p.Color == side {
				if p.Kind == King {
					continue
				}
				if pending {
					// two friendly pieces shield this ray
					break
				}
				candidate, pending = sq, true
				continue
			}
			if attacksAlongRay(p, enemy, d, diagonal, i) {
				if pending {
					a.Pins[candidate] = d
				} else {
					a.Checks = append(a.Checks, Check{Attacker: sq, Dir: d})
				}
			}
			break
		}
	}

	for _, leap := range knightLeaps {
		sq := king.Add(leap, 1)
		if !sq.Valid() {
			continue
		}
		if p := b.At(sq); p.Kind == Knight && p.Color == enemy {
			a.Checks = append(a.Checks, Check{Attacker: sq, Dir: leap, Leap: true})
		}
	}

	a.InCheck = len(a.Checks) > 0
	return a
}

// attacksAlongRay reports whether enemy piece p, found dist squares from the
// king along d, attacks back down that ray.
func attacksAlongRay(p Piece, enemy Color, d Direction, diagonal bool, dist int) bool {
	switch p.Kind {
	case Queen:
		return true
	case Rook:
		return !diagonal
	case Bishop:
		return diagonal
	case King:
		return dist == 1
	case Pawn:
		if !diagonal || dist != 1 {
			return false
		}
		// the pawn must sit on the side it advances from
		return d.DRow == -pawnForward(enemy)
	}
	return false
}

// BlockSquares returns the squares a non-king move may land on to answer
// check: the ray from king (exclusive) to the attacker (inclusive), or just
// the attacker for a knight.
func BlockSquares(king Square, c Check) []Square {
	if c.Leap {
		return []Square{c.Attacker}
	}
	squares := make([]Square, 0, BoardSize-1)
	for i := 1; i < BoardSize; i++ {
		sq := king.Add(c.Dir, i)
		if !sq.Valid() {
			break
		}
		squares = append(squares, sq)
		if sq == c.Attacker {
			break
		}
	}
	return squares
}
