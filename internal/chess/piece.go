package chess

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Opposite returns the other side.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// code is the single-letter prefix used in piece codes ("w" or "b").
func (c Color) code() byte {
	if c == White {
		return 'w'
	}
	return 'b'
}

// Kind is the closed set of piece kinds. NoKind marks an empty square.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

var kindNames = [...]string{
	NoKind: "none",
	Pawn:   "pawn",
	Rook:   "rook",
	Knight: "knight",
	Bishop: "bishop",
	Queen:  "queen",
	King:   "king",
}

var kindLetters = [...]byte{
	NoKind: '-',
	Pawn:   'p',
	Rook:   'R',
	Knight: 'N',
	Bishop: 'B',
	Queen:  'Q',
	King:   'K',
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Piece is a colored piece, or Empty.
type Piece struct {
	Color Color
	Kind  Kind
}

// Empty is the contents of a square with no piece on it.
var Empty = Piece{}

// NewPiece returns a piece of the given color and kind.
func NewPiece(c Color, k Kind) Piece {
	if k == NoKind {
		return Empty
	}
	return Piece{Color: c, Kind: k}
}

func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

// Is reports whether p is a piece of color c (never true for Empty).
func (p Piece) Is(c Color) bool {
	return !p.IsEmpty() && p.Color == c
}

// String returns the two character code of the piece, e.g. "wK", "bp" or "--".
func (p Piece) String() string {
	if p.IsEmpty() {
		return "--"
	}
	return string([]byte{p.Color.code(), kindLetters[p.Kind]})
}
