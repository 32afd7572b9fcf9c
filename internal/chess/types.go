package chess

// MoveResult describes a move played through MakeMove.
type MoveResult struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Notation   string `json:"notation"`
	Piece      string `json:"piece"`
	Captured   string `json:"captured,omitempty"`
	FEN        string `json:"fen"`
	SideToMove string `json:"sideToMove"`
	Check      bool   `json:"check"`
	// LegalMoves is the size of the opponent's reply set. Zero together with
	// Check means the opponent has been mated; the engine does not say so itself.
	LegalMoves int `json:"legalMoves"`
}

// MaterialCount represents the material count for both sides
type MaterialCount struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// StandardPieceValues maps piece kinds to their standard values
var StandardPieceValues = map[Kind]int{
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   0, // King has no material value
}
