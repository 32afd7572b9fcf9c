package chess

// Move is a single ply. Values are immutable once built.
type Move struct {
	Start         Square
	End           Square
	PieceMoved    Piece
	PieceCaptured Piece
	id            int
}

// NewMove builds the move from start to end, reading the moved and captured
// pieces off b.
func NewMove(start, end Square, b *Board) Move {
	return Move{
		Start:         start,
		End:           end,
		PieceMoved:    b.At(start),
		PieceCaptured: b.At(end),
		id:            end.Row*1000 + end.Col*100 + start.Row*10 + start.Col,
	}
}

// ID identifies the move by its coordinates only. Two moves between the same
// squares share an ID whatever pieces they carry.
func (m Move) ID() int {
	return m.id
}

// Equal compares moves by ID.
func (m Move) Equal(other Move) bool {
	return m.id == other.id
}

// IsCapture reports whether the move takes a piece.
func (m Move) IsCapture() bool {
	return !m.PieceCaptured.IsEmpty()
}

// Notation returns origin and destination squares, e.g. "d2d4".
func (m Move) Notation() string {
	return m.Start.String() + m.End.String()
}

func (m Move) String() string {
	return m.Notation()
}

// MarshalText encodes the move as its notation.
func (m Move) MarshalText() ([]byte, error) {
	return []byte(m.Notation()), nil
}
