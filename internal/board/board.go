package board

// Size is the board dimension. Checkers is always played on 8x8.
const Size = 8

// Cell encodes the content of one square. The numeric values are part of the
// wire format consumed by the frontend, so the order is fixed.
type Cell int

const (
	Empty Cell = iota
	P1Man
	P2Man
	P1King
	P2King
)

// Side identifies a player. P1 starts on rows 5-7 and moves toward row 0,
// P2 starts on rows 0-2 and moves toward row 7.
type Side int

const (
	P1 Side = 1
	P2 Side = 2
)

func (s Side) Opponent() Side {
	if s == P1 {
		return P2
	}
	return P1
}

func (s Side) String() string {
	if s == P1 {
		return "player1"
	}
	return "player2"
}

// Owner reports which side a cell belongs to, if any.
func (c Cell) Owner() (Side, bool) {
	switch c {
	case P1Man, P1King:
		return P1, true
	case P2Man, P2King:
		return P2, true
	}
	return 0, false
}

func (c Cell) IsKing() bool {
	return c == P1King || c == P2King
}

// Man returns the unpromoted piece for a side.
func Man(s Side) Cell {
	if s == P1 {
		return P1Man
	}
	return P2Man
}

// King returns the promoted piece for a side.
func King(s Side) Cell {
	if s == P1 {
		return P1King
	}
	return P2King
}

// Board is the 8x8 grid, row-major. It is a value type: copying a Board copies
// the whole position, which keeps the rule engine free of aliasing bugs.
type Board [Size][Size]Cell

func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// Playable reports whether (row, col) is one of the dark squares pieces may
// occupy. Pieces never leave this parity.
func Playable(row, col int) bool {
	return (row+col)%2 == 1
}

// NewStarting returns the standard opening position: 12 men per side on the
// dark squares of the three back rows of each color.
func NewStarting() Board {
	var b Board
	for row := 0; row < 3; row++ {
		for col := 0; col < Size; col++ {
			if Playable(row, col) {
				b[row][col] = P2Man
			}
		}
	}
	for row := 5; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if Playable(row, col) {
				b[row][col] = P1Man
			}
		}
	}
	return b
}

// Count returns the number of pieces (men and kings) a side has on the board.
func (b Board) Count(s Side) int {
	n := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if owner, ok := b[row][col].Owner(); ok && owner == s {
				n++
			}
		}
	}
	return n
}
