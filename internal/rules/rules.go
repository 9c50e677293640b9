package rules

import (
	"errors"

	"github.com/andjpython/Jogo-de-damas/internal/board"
)

// ErrInvalidCoordinate is returned by piece-level queries on squares outside
// the board. The engine has no other failure mode: it is a pure function of
// (board, turn, chain).
var ErrInvalidCoordinate = errors.New("coordinate out of range")

// Move is a single leg: one diagonal step or one jump.
type Move struct {
	FromRow int `json:"from_row"`
	FromCol int `json:"from_col"`
	ToRow   int `json:"to_row"`
	ToCol   int `json:"to_col"`
}

// IsCapture reports whether the move is a jump. Legs are only ever generated
// with row deltas of 1 or 2, so the row delta alone decides.
func (m Move) IsCapture() bool {
	return abs(m.ToRow-m.FromRow) == 2
}

// CapturedSquare returns the square jumped over. Only meaningful for captures.
func (m Move) CapturedSquare() (row, col int) {
	return (m.FromRow + m.ToRow) / 2, (m.FromCol + m.ToCol) / 2
}

// Chain is the in-progress multi-jump state: the piece that must keep
// capturing and the squares it has already jumped this turn. It lives only
// between the first and last leg of one turn and is discarded when the turn
// passes.
type Chain struct {
	Row    int
	Col    int
	Jumped [][2]int
}

func (c *Chain) hasJumped(row, col int) bool {
	if c == nil {
		return false
	}
	for _, sq := range c.Jumped {
		if sq[0] == row && sq[1] == col {
			return true
		}
	}
	return false
}

// forwardRow is the row direction a man advances in: P1 climbs toward row 0.
func forwardRow(s board.Side) int {
	if s == board.P1 {
		return -1
	}
	return 1
}

// promotionRow is the opposing back rank where a man becomes a king.
func promotionRow(s board.Side) int {
	if s == board.P1 {
		return 0
	}
	return board.Size - 1
}

var diagonals = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

// pieceCaptures enumerates the jumps available to the piece at (row, col),
// honoring the chain's already-jumped squares. Captures are omnidirectional
// even for men.
func pieceCaptures(b board.Board, row, col int, chain *Chain) []Move {
	side, ok := b[row][col].Owner()
	if !ok {
		return nil
	}
	var out []Move
	for _, d := range diagonals {
		midRow, midCol := row+d[0], col+d[1]
		toRow, toCol := row+2*d[0], col+2*d[1]
		if !board.InBounds(toRow, toCol) || b[toRow][toCol] != board.Empty {
			continue
		}
		victim, occupied := b[midRow][midCol].Owner()
		if !occupied || victim == side || chain.hasJumped(midRow, midCol) {
			continue
		}
		out = append(out, Move{FromRow: row, FromCol: col, ToRow: toRow, ToCol: toCol})
	}
	return out
}

// pieceSimpleMoves enumerates the one-square steps for the piece at
// (row, col). Men step forward only; kings step in all four diagonals.
func pieceSimpleMoves(b board.Board, row, col int) []Move {
	cell := b[row][col]
	side, ok := cell.Owner()
	if !ok {
		return nil
	}
	var out []Move
	for _, d := range diagonals {
		if !cell.IsKing() && d[0] != forwardRow(side) {
			continue
		}
		toRow, toCol := row+d[0], col+d[1]
		if board.InBounds(toRow, toCol) && b[toRow][toCol] == board.Empty {
			out = append(out, Move{FromRow: row, FromCol: col, ToRow: toRow, ToCol: toCol})
		}
	}
	return out
}

// PieceMoves returns the legal moves of the single piece at (row, col) for
// the side to move, with the forced-capture rule applied board-wide: when any
// capture exists for the side, the piece's simple moves are withheld.
func PieceMoves(b board.Board, turn board.Side, row, col int, chain *Chain) ([]Move, error) {
	if !board.InBounds(row, col) {
		return nil, ErrInvalidCoordinate
	}
	if owner, ok := b[row][col].Owner(); !ok || owner != turn {
		return nil, nil
	}
	if chain != nil {
		if chain.Row != row || chain.Col != col {
			return nil, nil
		}
		return pieceCaptures(b, row, col, chain), nil
	}
	if HasCapture(b, turn) {
		return pieceCaptures(b, row, col, nil), nil
	}
	return pieceSimpleMoves(b, row, col), nil
}

// HasCapture reports whether any piece of the given side has a jump.
func HasCapture(b board.Board, turn board.Side) bool {
	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			if owner, ok := b[row][col].Owner(); ok && owner == turn {
				if len(pieceCaptures(b, row, col, nil)) > 0 {
					return true
				}
			}
		}
	}
	return false
}

// LegalMoves enumerates every legal move for the side to move. With an active
// chain only the chained piece's remaining captures are legal. Otherwise the
// forced-capture rule applies: if any capture exists, simple moves are
// excluded. Evaluated fresh on every call, never cached.
func LegalMoves(b board.Board, turn board.Side, chain *Chain) []Move {
	if chain != nil {
		return pieceCaptures(b, chain.Row, chain.Col, chain)
	}
	var captures, simples []Move
	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			if owner, ok := b[row][col].Owner(); !ok || owner != turn {
				continue
			}
			captures = append(captures, pieceCaptures(b, row, col, nil)...)
			if len(captures) == 0 {
				simples = append(simples, pieceSimpleMoves(b, row, col)...)
			}
		}
	}
	if len(captures) > 0 {
		return captures
	}
	return simples
}

// Outcome describes the result of applying one leg.
type Outcome struct {
	Board        board.Board
	Captured     bool
	CapturedRow  int
	CapturedCol  int
	Promoted     bool
	MustContinue bool
	Chain        *Chain
}

// Apply plays one already-validated leg and reports what happened. The
// captured piece, if any, is removed immediately. A man landing on the
// opposing back rank is promoted on the spot, even mid-chain, which may open
// king-direction jumps for the rest of the same chain. MustContinue is set
// when the landed piece still has at least one jump: the turn does not pass
// and Outcome.Chain restricts further play to that piece.
func Apply(b board.Board, turn board.Side, m Move, chain *Chain) Outcome {
	out := Outcome{Board: b}
	piece := b[m.FromRow][m.FromCol]
	out.Board[m.FromRow][m.FromCol] = board.Empty

	if m.IsCapture() {
		out.Captured = true
		out.CapturedRow, out.CapturedCol = m.CapturedSquare()
		out.Board[out.CapturedRow][out.CapturedCol] = board.Empty
	}

	if !piece.IsKing() && m.ToRow == promotionRow(turn) {
		piece = board.King(turn)
		out.Promoted = true
	}
	out.Board[m.ToRow][m.ToCol] = piece

	if out.Captured {
		next := &Chain{Row: m.ToRow, Col: m.ToCol}
		if chain != nil {
			next.Jumped = append(next.Jumped, chain.Jumped...)
		}
		next.Jumped = append(next.Jumped, [2]int{out.CapturedRow, out.CapturedCol})
		if len(pieceCaptures(out.Board, m.ToRow, m.ToCol, next)) > 0 {
			out.MustContinue = true
			out.Chain = next
		}
	}
	return out
}

// Winner checks the position from the point of view of the side about to
// move: with no pieces or no legal moves that side has lost. Exactly one of
// {ongoing, P1 wins, P2 wins} holds.
func Winner(b board.Board, turn board.Side, chain *Chain) (board.Side, bool) {
	if b.Count(turn) == 0 || len(LegalMoves(b, turn, chain)) == 0 {
		return turn.Opponent(), true
	}
	return 0, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
