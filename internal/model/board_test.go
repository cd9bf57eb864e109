package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boardOf(cells ...Symbol) Board {
	var b Board
	copy(b[:], cells)
	return b
}

const (
	x = SymbolX
	o = SymbolO
	e = SymbolEmpty
)

func TestBoardWinner(t *testing.T) {
	tests := []struct {
		name         string
		board        Board
		expectSymbol Symbol
		expectCombo  []int
	}{
		{
			name:         "empty board",
			board:        Board{},
			expectSymbol: SymbolEmpty,
		},
		{
			name:         "top row",
			board:        boardOf(x, x, x, e, e, e, e, e, e),
			expectSymbol: SymbolX,
			expectCombo:  []int{0, 1, 2},
		},
		{
			name:         "middle column",
			board:        boardOf(e, o, e, e, o, e, e, o, e),
			expectSymbol: SymbolO,
			expectCombo:  []int{1, 4, 7},
		},
		{
			name:         "anti-diagonal",
			board:        boardOf(e, e, x, e, x, e, x, e, e),
			expectSymbol: SymbolX,
			expectCombo:  []int{2, 4, 6},
		},
		{
			name:         "row checked before column",
			board:        boardOf(x, x, x, x, e, e, x, e, e),
			expectSymbol: SymbolX,
			expectCombo:  []int{0, 1, 2},
		},
		{
			name:         "mixed line does not win",
			board:        boardOf(x, o, x, e, e, e, e, e, e),
			expectSymbol: SymbolEmpty,
		},
		{
			name:         "full board without line",
			board:        boardOf(x, o, x, x, o, o, o, x, x),
			expectSymbol: SymbolEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			symbol, combo := tt.board.Winner()
			assert.Equal(t, tt.expectSymbol, symbol)
			assert.Equal(t, tt.expectCombo, combo)
		})
	}
}

func TestBoardIsFull(t *testing.T) {
	full := boardOf(x, o, x, x, o, o, o, x, x)
	assert.True(t, full.IsFull())

	partial := boardOf(x, o, x, x, o, o, o, x, e)
	assert.False(t, partial.IsFull())
}

func TestBoardPositions(t *testing.T) {
	b := boardOf(x)

	assert.True(t, b.IsValidPosition(0))
	assert.True(t, b.IsValidPosition(8))
	assert.False(t, b.IsValidPosition(-1))
	assert.False(t, b.IsValidPosition(9))

	assert.False(t, b.IsEmpty(0))
	assert.True(t, b.IsEmpty(1))
	assert.False(t, b.IsEmpty(9))
}

func TestBoardCells(t *testing.T) {
	b := boardOf(x, e, o)
	assert.Equal(t, []string{"X", "", "O", "", "", "", "", "", ""}, b.Cells())
}

func TestGamePlayerHelpers(t *testing.T) {
	g := &Game{Player1: "alice", Player2: "bob", Player1Conn: "c1", Player2Conn: "c2"}

	assert.Equal(t, Username("bob"), g.Opponent("alice"))
	assert.Equal(t, Username("alice"), g.Opponent("bob"))
	assert.Equal(t, ConnID("c2"), g.ConnFor("bob"))
	assert.Equal(t, Username("alice"), g.PlayerFor(SymbolX))
	assert.Equal(t, SymbolEmpty, g.SymbolFor("mallory"))
	assert.True(t, g.HasPlayer("bob"))
	assert.False(t, g.HasPlayer("mallory"))
	assert.Equal(t, []ConnID{"c1", "c2"}, g.Conns())
}
