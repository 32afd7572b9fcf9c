package chess

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMakeMove(t *testing.T) {
	g := NewGame()

	result, err := g.MakeMove("d2", "d4")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.From != "d2" {
		t.Errorf("Expected from d2, got %s", result.From)
	}
	if result.To != "d4" {
		t.Errorf("Expected to d4, got %s", result.To)
	}
	if result.Notation != "d2d4" {
		t.Errorf("Expected notation d2d4, got %s", result.Notation)
	}
	if result.Piece != "wp" {
		t.Errorf("Expected piece wp, got %s", result.Piece)
	}
	if result.Captured != "" {
		t.Errorf("Expected no capture, got %s", result.Captured)
	}
	if result.SideToMove != "black" {
		t.Errorf("Expected black to move, got %s", result.SideToMove)
	}
	if result.Check {
		t.Error("Expected no check")
	}
	if result.LegalMoves != 20 {
		t.Errorf("Expected 20 replies, got %d", result.LegalMoves)
	}
	if result.FEN != g.FEN() {
		t.Errorf("Expected FEN %s, got %s", g.FEN(), result.FEN)
	}

	// the pawn is no longer on d2
	_, err = g.MakeMove("d2", "d4")
	if !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Expected ErrIllegalMove, got %v", err)
	}
}

func TestMakeMoveInvalidSquare(t *testing.T) {
	g := NewGame()

	_, err := g.MakeMove("z9", "d4")
	if !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("Expected ErrInvalidSquare, got %v", err)
	}

	_, err = g.MakeMove("d2", "z9")
	if !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("Expected ErrInvalidSquare, got %v", err)
	}

	if g.Len() != 0 {
		t.Errorf("Expected no moves to be played, got %d", g.Len())
	}
}

func TestMakeMoveReportsCaptureAndCheck(t *testing.T) {
	g := position(t, White, map[Square]Piece{
		sq(7, 7): wK, sq(0, 4): bK,
		sq(4, 4): wR, sq(2, 4): bN,
	})

	result, err := g.MakeMove("d4", "d6")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Captured != "bN" {
		t.Errorf("Expected captured bN, got %q", result.Captured)
	}
	if !result.Check {
		t.Error("Expected the rook to give check")
	}
	if result.LegalMoves == 0 {
		t.Error("Expected the black king to have replies")
	}
}

func TestMoveResultJSONFieldNames(t *testing.T) {
	result := &MoveResult{
		From:       "d2",
		To:         "d4",
		Notation:   "d2d4",
		Piece:      "wp",
		FEN:        "rnbkqbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBKQBNR b - - 0 1",
		SideToMove: "black",
		LegalMoves: 20,
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Failed to marshal MoveResult: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	expectedFields := []string{"from", "to", "notation", "piece", "fen", "sideToMove", "check", "legalMoves"}
	for _, field := range expectedFields {
		if _, exists := parsed[field]; !exists {
			t.Errorf("Missing field in JSON: %s", field)
		}
	}
	if _, exists := parsed["captured"]; exists {
		t.Error("Expected captured to be omitted for quiet moves")
	}
	if parsed["legalMoves"] != float64(20) {
		t.Errorf("Expected legalMoves=20, got %v", parsed["legalMoves"])
	}
}
