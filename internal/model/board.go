package model

// Symbol is the content of a board cell
type Symbol string

const (
	SymbolEmpty Symbol = ""
	SymbolX     Symbol = "X"
	SymbolO     Symbol = "O"
)

// BoardSize is the number of cells on the board
const BoardSize = 9

// WinningLines lists every row, column and diagonal in evaluation order
var WinningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Board is a 3x3 grid stored row-major
type Board [BoardSize]Symbol

// IsValidPosition returns true if pos is a cell index
func (b *Board) IsValidPosition(pos int) bool {
	return pos >= 0 && pos < BoardSize
}

// IsEmpty returns true if the cell at pos holds no symbol
func (b *Board) IsEmpty(pos int) bool {
	return b.IsValidPosition(pos) && b[pos] == SymbolEmpty
}

// IsFull returns true if every cell holds a symbol
func (b *Board) IsFull() bool {
	for _, cell := range b {
		if cell == SymbolEmpty {
			return false
		}
	}
	return true
}

// Winner returns the symbol and cells of the first completed line in
// WinningLines order, or SymbolEmpty and nil if there is none
func (b *Board) Winner() (Symbol, []int) {
	for _, line := range WinningLines {
		first := b[line[0]]
		if first != SymbolEmpty && first == b[line[1]] && first == b[line[2]] {
			return first, []int{line[0], line[1], line[2]}
		}
	}
	return SymbolEmpty, nil
}

// Cells returns the board as plain strings
func (b *Board) Cells() []string {
	cells := make([]string, BoardSize)
	for i, c := range b {
		cells[i] = string(c)
	}
	return cells
}
