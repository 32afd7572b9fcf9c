package chess

import (
	"fmt"
	"strconv"
	"strings"

	nchess "github.com/notnil/chess"
)

var (
	toKind = map[nchess.PieceType]Kind{
		nchess.King:   King,
		nchess.Queen:  Queen,
		nchess.Rook:   Rook,
		nchess.Bishop: Bishop,
		nchess.Knight: Knight,
		nchess.Pawn:   Pawn,
	}
	fromKind = map[Kind]nchess.PieceType{
		King:   nchess.King,
		Queen:  nchess.Queen,
		Rook:   nchess.Rook,
		Bishop: nchess.Bishop,
		Knight: nchess.Knight,
		Pawn:   nchess.Pawn,
	}
)

// Square names agree between the two models: file a is column 7, rank 1 is row 7.
func fromFENSquare(sq nchess.Square) Square {
	return Square{Row: 7 - int(sq.Rank()), Col: 7 - int(sq.File())}
}

func toFENSquare(sq Square) nchess.Square {
	return nchess.NewSquare(nchess.File(7-sq.Col), nchess.Rank(7-sq.Row))
}

// ParseFEN builds a game from the placement, side-to-move and fullmove fields
// of a FEN record. Castling and en passant fields are accepted but not used.
// Every failure wraps ErrInvalidPosition.
func ParseFEN(fen string, opts ...Option) (*GameState, error) {
	fenFunc, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid FEN: %v", ErrInvalidPosition, err)
	}
	pos := nchess.NewGame(fenFunc).Position()

	var b Board
	for sq, p := range pos.Board().SquareMap() {
		kind, ok := toKind[p.Type()]
		if !ok {
			continue
		}
		color := White
		if p.Color() == nchess.Black {
			color = Black
		}
		b.Set(fromFENSquare(sq), NewPiece(color, kind))
	}

	side := White
	if pos.Turn() == nchess.Black {
		side = Black
	}
	g, err := NewGameFromBoard(b, side, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid FEN: %w", err)
	}
	if fields := strings.Fields(fen); len(fields) == 6 {
		if n, err := strconv.Atoi(fields[5]); err == nil && n > 0 {
			g.startMove = n
		}
	}
	return g, nil
}

// FEN encodes the current position. Castling and en passant are always "-"
// and the halfmove clock is not tracked.
func (g *GameState) FEN() string {
	pieces := make(map[nchess.Square]nchess.Piece)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			sq := Square{Row: row, Col: col}
			p := g.board.At(sq)
			if p.IsEmpty() {
				continue
			}
			color := nchess.White
			if p.Color == Black {
				color = nchess.Black
			}
			pieces[toFENSquare(sq)] = nchess.NewPiece(fromKind[p.Kind], color)
		}
	}

	turn := "w"
	if g.side == Black {
		turn = "b"
	}
	fullmove := g.startMove + (len(g.log)+int(g.startSide))/2
	return fmt.Sprintf("%s %s - - 0 %d", nchess.NewBoard(pieces).String(), turn, fullmove)
}
