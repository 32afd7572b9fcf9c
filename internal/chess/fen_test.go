package chess

import (
	"errors"
	"testing"
)

func TestInitialFEN(t *testing.T) {
	expectedFEN := "rnbkqbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBKQBNR w - - 0 1"
	if got := NewGame().FEN(); got != expectedFEN {
		t.Errorf("Expected FEN %s, got %s", expectedFEN, got)
	}
}

func TestParseFENRoundTrip(t *testing.T) {
	g := NewGame()
	if _, err := g.MakeMove("d2", "d4"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	parsed, err := ParseFEN(g.FEN())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	pb, gb := parsed.Board(), g.Board()
	if pb != gb {
		t.Errorf("Expected boards to match:\n%s\n%s", pb.String(), gb.String())
	}
	if parsed.SideToMove() != Black {
		t.Errorf("Expected black to move, got %s", parsed.SideToMove())
	}
	if parsed.KingSquare(Black) != sq(0, 4) {
		t.Errorf("Expected black king on (0,4), got %v", parsed.KingSquare(Black))
	}
}

func TestParseFENSquareNames(t *testing.T) {
	// king on e1 and queen on e8 in the usual sense
	g, err := ParseFEN("4q3/8/8/8/8/8/8/k3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	e1, _ := ParseSquare("e1")
	if g.KingSquare(White) != e1 {
		t.Errorf("Expected white king on e1 %v, got %v", e1, g.KingSquare(White))
	}
	if !g.InCheck() {
		t.Error("Expected the queen on the e-file to give check")
	}
}

func TestFullmoveCounter(t *testing.T) {
	g, err := ParseFEN("4k3/8/8/8/8/8/8/4K3 b - - 0 1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := g.MakeMove("e8", "e7"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	expected := "8/4k3/8/8/8/8/8/4K3 w - - 0 2"
	if g.FEN() != expected {
		t.Errorf("Expected FEN %s, got %s", expected, g.FEN())
	}
}

func TestFENValidationRejectsInvalidInput(t *testing.T) {
	testCases := []struct {
		name     string
		fen      string
		expected bool
	}{
		{"Empty FEN should be rejected", "", false},
		{"Valid starting position should be accepted", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", true},
		{"Too few sections should be rejected", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq", false},
		{"Invalid board configuration should be rejected", "invalid/board/config/here w KQkq - 0 1", false},
		{"Missing black king should be rejected", "8/8/8/8/8/8/8/4K3 w - - 0 1", false},
		{"Rook beside the king should be accepted", "4k3/8/8/8/8/8/8/4KR2 w - - 0 1", true},
		{"Side not to move in check should be rejected", "4k3/8/8/8/8/8/8/4RK2 w - - 0 1", false},
		{"Side to move in check should be accepted", "4k3/8/8/8/8/8/8/4RK2 b - - 0 1", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFEN(tc.fen)
			if tc.expected && err != nil {
				t.Errorf("Expected valid FEN, got error: %v", err)
			}
			if !tc.expected && err == nil {
				t.Errorf("Expected invalid FEN to return error, got nil")
			}
		})
	}
}

func TestParseFENErrorsWrapInvalidPosition(t *testing.T) {
	for _, fen := range []string{"", "not a fen", "8/8/8/8/8/8/8/4K3 w - - 0 1"} {
		if _, err := ParseFEN(fen); !errors.Is(err, ErrInvalidPosition) {
			t.Errorf("ParseFEN(%q): expected ErrInvalidPosition, got %v", fen, err)
		}
	}
}

func TestFullmoveNumberIsKept(t *testing.T) {
	g, err := ParseFEN("4k3/8/8/8/8/8/8/4K3 b - - 0 37")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if expected := "4k3/8/8/8/8/8/8/4K3 b - - 0 37"; g.FEN() != expected {
		t.Errorf("Expected FEN %s, got %s", expected, g.FEN())
	}

	if _, err := g.MakeMove("e8", "e7"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if expected := "8/4k3/8/8/8/8/8/4K3 w - - 0 38"; g.FEN() != expected {
		t.Errorf("Expected FEN %s, got %s", expected, g.FEN())
	}
	if _, err := g.MakeMove("e1", "e2"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if expected := "8/4k3/8/8/8/8/4K3/8 b - - 0 38"; g.FEN() != expected {
		t.Errorf("Expected FEN %s, got %s", expected, g.FEN())
	}
}
