package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andjpython/Jogo-de-damas/internal/board"
)

func TestStartingPosition(t *testing.T) {
	b := board.NewStarting()

	require.Equal(t, 12, b.Count(board.P1))
	require.Equal(t, 12, b.Count(board.P2))

	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			if b[row][col] != board.Empty {
				assert.True(t, board.Playable(row, col),
					"piece at (%d,%d) is on the wrong square parity", row, col)
			}
		}
	}
}

func TestManMovesForwardOnly(t *testing.T) {
	var b board.Board
	b[3][2] = board.P1Man

	moves := LegalMoves(b, board.P1, nil)
	require.ElementsMatch(t, []Move{
		{FromRow: 3, FromCol: 2, ToRow: 2, ToCol: 1},
		{FromRow: 3, FromCol: 2, ToRow: 2, ToCol: 3},
	}, moves, "P1 men advance toward row 0 only")

	b = board.Board{}
	b[3][2] = board.P2Man
	moves = LegalMoves(b, board.P2, nil)
	require.ElementsMatch(t, []Move{
		{FromRow: 3, FromCol: 2, ToRow: 4, ToCol: 1},
		{FromRow: 3, FromCol: 2, ToRow: 4, ToCol: 3},
	}, moves, "P2 men advance toward row 7 only")
}

func TestKingMovesAllDirections(t *testing.T) {
	var b board.Board
	b[3][2] = board.P1King

	moves := LegalMoves(b, board.P1, nil)
	require.ElementsMatch(t, []Move{
		{FromRow: 3, FromCol: 2, ToRow: 2, ToCol: 1},
		{FromRow: 3, FromCol: 2, ToRow: 2, ToCol: 3},
		{FromRow: 3, FromCol: 2, ToRow: 4, ToCol: 1},
		{FromRow: 3, FromCol: 2, ToRow: 4, ToCol: 3},
	}, moves)
}

func TestForcedCaptureExcludesSimpleMoves(t *testing.T) {
	// P1 man at (3,2), P2 man at (2,3), (1,4) empty: the capture is the only
	// legal move even though forward steps are open.
	var b board.Board
	b[3][2] = board.P1Man
	b[2][3] = board.P2Man

	moves := LegalMoves(b, board.P1, nil)
	require.Equal(t, []Move{{FromRow: 3, FromCol: 2, ToRow: 1, ToCol: 4}}, moves)

	for _, m := range moves {
		assert.True(t, m.IsCapture(), "forced-capture set must never mix in simple moves")
	}
}

func TestForcedCaptureAppliesBoardWide(t *testing.T) {
	// The capture belongs to one piece, but every other P1 piece loses its
	// simple moves too.
	var b board.Board
	b[3][2] = board.P1Man
	b[2][3] = board.P2Man
	b[5][6] = board.P1Man

	moves := LegalMoves(b, board.P1, nil)
	require.Len(t, moves, 1)
	require.True(t, moves[0].IsCapture())

	pieceMoves, err := PieceMoves(b, board.P1, 5, 6, nil)
	require.NoError(t, err)
	require.Empty(t, pieceMoves, "a piece without captures has no legal moves while a capture exists elsewhere")
}

func TestMenCaptureBackwards(t *testing.T) {
	// Captures are omnidirectional even for men: a P1 man jumps a piece
	// behind it.
	var b board.Board
	b[3][2] = board.P1Man
	b[4][3] = board.P2Man

	moves := LegalMoves(b, board.P1, nil)
	require.Equal(t, []Move{{FromRow: 3, FromCol: 2, ToRow: 5, ToCol: 4}}, moves)
}

func TestCaptureNeedsEmptyLanding(t *testing.T) {
	var b board.Board
	b[3][2] = board.P1Man
	b[2][3] = board.P2Man
	b[1][4] = board.P2Man // landing square blocked

	for _, m := range LegalMoves(b, board.P1, nil) {
		assert.False(t, m.IsCapture())
	}
}

func TestMultiJumpChain(t *testing.T) {
	var b board.Board
	b[5][0] = board.P1Man
	b[4][1] = board.P2Man
	b[2][1] = board.P2Man

	first := Move{FromRow: 5, FromCol: 0, ToRow: 3, ToCol: 2}
	require.Contains(t, LegalMoves(b, board.P1, nil), first)

	out := Apply(b, board.P1, first, nil)
	require.True(t, out.Captured)
	require.Equal(t, board.Empty, out.Board[4][1], "jumped piece is removed immediately")
	require.True(t, out.MustContinue, "a second jump is available, the turn must not pass")
	require.NotNil(t, out.Chain)
	require.Equal(t, 3, out.Chain.Row)
	require.Equal(t, 2, out.Chain.Col)
	require.Contains(t, out.Chain.Jumped, [2]int{4, 1})

	// Mid-chain the legal set is exactly the chained piece's captures.
	moves := LegalMoves(out.Board, board.P1, out.Chain)
	require.Equal(t, []Move{{FromRow: 3, FromCol: 2, ToRow: 1, ToCol: 0}}, moves)

	second := moves[0]
	out2 := Apply(out.Board, board.P1, second, out.Chain)
	require.False(t, out2.MustContinue, "chain ends when no further jump exists")
	require.Nil(t, out2.Chain, "chain state is discarded at end of turn")
}

func TestChainNeverRejumpsSameSquare(t *testing.T) {
	// A king mid-chain must not count an already-jumped square as a victim
	// again, even in a position that cycles back next to it.
	var b board.Board
	b[4][3] = board.P1King
	b[3][2] = board.P2Man

	first := Move{FromRow: 4, FromCol: 3, ToRow: 2, ToCol: 1}
	out := Apply(b, board.P1, first, nil)
	require.True(t, out.Captured)
	require.False(t, out.MustContinue)
	require.NotContains(t, LegalMoves(out.Board, board.P1, &Chain{Row: 2, Col: 1, Jumped: [][2]int{{3, 2}}}),
		Move{FromRow: 2, FromCol: 1, ToRow: 4, ToCol: 3})
}

func TestPromotionOnLanding(t *testing.T) {
	var b board.Board
	b[1][2] = board.P1Man

	out := Apply(b, board.P1, Move{FromRow: 1, FromCol: 2, ToRow: 0, ToCol: 1}, nil)
	require.True(t, out.Promoted)
	require.Equal(t, board.P1King, out.Board[0][1])

	b = board.Board{}
	b[6][3] = board.P2Man
	out = Apply(b, board.P2, Move{FromRow: 6, FromCol: 3, ToRow: 7, ToCol: 4}, nil)
	require.True(t, out.Promoted)
	require.Equal(t, board.P2King, out.Board[7][4])
}

func TestNoPromotionBeforeBackRank(t *testing.T) {
	var b board.Board
	b[3][2] = board.P1Man

	out := Apply(b, board.P1, Move{FromRow: 3, FromCol: 2, ToRow: 2, ToCol: 1}, nil)
	require.False(t, out.Promoted)
	require.Equal(t, board.P1Man, out.Board[2][1])
}

func TestPromotionMidChainKeepsChainAlive(t *testing.T) {
	// A capture landing on the back rank promotes on the spot; the new king
	// continues the same chain away from the back rank.
	var b board.Board
	b[2][1] = board.P1Man
	b[1][2] = board.P2Man
	b[1][4] = board.P2Man

	first := Move{FromRow: 2, FromCol: 1, ToRow: 0, ToCol: 3}
	require.Contains(t, LegalMoves(b, board.P1, nil), first)

	out := Apply(b, board.P1, first, nil)
	require.True(t, out.Promoted)
	require.Equal(t, board.P1King, out.Board[0][3])
	require.True(t, out.MustContinue)

	moves := LegalMoves(out.Board, board.P1, out.Chain)
	require.Equal(t, []Move{{FromRow: 0, FromCol: 3, ToRow: 2, ToCol: 5}}, moves)

	out2 := Apply(out.Board, board.P1, moves[0], out.Chain)
	require.Equal(t, board.P1King, out2.Board[2][5], "promotion sticks for the rest of the chain")
}

func TestPieceMovesInvalidCoordinate(t *testing.T) {
	b := board.NewStarting()

	_, err := PieceMoves(b, board.P1, -1, 0, nil)
	require.ErrorIs(t, err, ErrInvalidCoordinate)
	_, err = PieceMoves(b, board.P1, 0, 8, nil)
	require.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestWinnerByElimination(t *testing.T) {
	var b board.Board
	b[3][2] = board.P1Man

	winner, over := Winner(b, board.P2, nil)
	require.True(t, over)
	require.Equal(t, board.P1, winner)
}

func TestWinnerByNoMoves(t *testing.T) {
	// P2 man trapped in the corner behind a wall: pieces on the board but no
	// legal move on its turn.
	var b board.Board
	b[7][0] = board.P2Man
	b[6][1] = board.P1Man
	b[5][0] = board.P1Man
	b[5][2] = board.P1King

	if len(LegalMoves(b, board.P2, nil)) == 0 {
		winner, over := Winner(b, board.P2, nil)
		require.True(t, over)
		require.Equal(t, board.P1, winner)
	} else {
		t.Fatalf("setup expected P2 to be blocked, got %v", LegalMoves(b, board.P2, nil))
	}
}

func TestOngoingGameHasNoWinner(t *testing.T) {
	_, over := Winner(board.NewStarting(), board.P1, nil)
	require.False(t, over)
}
