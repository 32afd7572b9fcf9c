package chess

import (
	"testing"
)

func TestMoveIdentity(t *testing.T) {
	b := NewBoard()
	m := NewMove(sq(6, 4), sq(4, 4), &b)

	if m.ID() != 4*1000+4*100+6*10+4 {
		t.Errorf("unexpected id %d", m.ID())
	}
	if m.PieceMoved != wP {
		t.Errorf("expected moved piece wp, got %s", m.PieceMoved)
	}
	if m.IsCapture() {
		t.Error("expected quiet move")
	}

	// same coordinates, different board contents
	var empty Board
	other := NewMove(sq(6, 4), sq(4, 4), &empty)
	if !m.Equal(other) {
		t.Error("expected moves with equal coordinates to be equal")
	}

	reversed := NewMove(sq(4, 4), sq(6, 4), &b)
	if m.Equal(reversed) {
		t.Error("expected reversed move to differ")
	}
}

func TestMoveNotation(t *testing.T) {
	b := NewBoard()
	tests := []struct {
		from, to Square
		expected string
	}{
		{sq(6, 4), sq(4, 4), "d2d4"},
		{sq(7, 1), sq(5, 2), "g1f3"},
		{sq(1, 3), sq(3, 3), "e7e5"},
		{sq(0, 6), sq(2, 7), "b8a6"},
	}

	for _, test := range tests {
		m := NewMove(test.from, test.to, &b)
		if m.Notation() != test.expected {
			t.Errorf("Notation(%v->%v) = %s, expected %s", test.from, test.to, m.Notation(), test.expected)
		}
		if len(m.Notation()) != 4 {
			t.Errorf("expected 4 characters, got %q", m.Notation())
		}
	}
}

func TestMoveMarshalText(t *testing.T) {
	b := NewBoard()
	text, err := NewMove(sq(6, 0), sq(5, 0), &b).MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	if string(text) != "h2h3" {
		t.Errorf("expected h2h3, got %s", text)
	}
}
