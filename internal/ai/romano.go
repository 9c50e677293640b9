// Package ai implements Romano, the built-in computer opponent. It picks
// greedily among the rule engine's legal moves with a weighted score; the
// session validates every proposal, so Romano never needs to re-check rules.
package ai

import (
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/andjpython/Jogo-de-damas/internal/board"
	"github.com/andjpython/Jogo-de-damas/internal/config"
	"github.com/andjpython/Jogo-de-damas/internal/rules"
)

type Romano struct {
	weights config.Weights
	log     zerolog.Logger
}

func New(cfg config.Config, log zerolog.Logger) *Romano {
	return &Romano{
		weights: cfg.Weights,
		log:     log.With().Str("component", "ai").Logger(),
	}
}

func (a *Romano) ProposeMove(b board.Board, side board.Side, chain *rules.Chain) (rules.Move, error) {
	moves := rules.LegalMoves(b, side, chain)
	if len(moves) == 0 {
		return rules.Move{}, errors.New("no legal moves to propose")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	best := moves[0]
	bestScore := a.score(b, side, moves[0], chain)
	for _, m := range moves[1:] {
		score := a.score(b, side, m, chain)
		// Random tie-break keeps games from repeating move for move.
		if score > bestScore || (score == bestScore && rng.Intn(2) == 0) {
			best = m
			bestScore = score
		}
	}
	a.log.Debug().
		Int("from_row", best.FromRow).Int("from_col", best.FromCol).
		Int("to_row", best.ToRow).Int("to_col", best.ToCol).
		Int("score", bestScore).Msg("move chosen")
	return best, nil
}

func (a *Romano) score(b board.Board, side board.Side, m rules.Move, chain *rules.Chain) int {
	w := a.weights
	score := 0

	out := rules.Apply(b, side, m, chain)
	if out.Captured {
		score += w.WCapture
	}
	if out.MustContinue {
		// A second jump is coming for free.
		score += w.WCapture / 2
	}
	if out.Promoted {
		score += w.WPromote
	}

	// Push men toward the promotion rank.
	if !b[m.FromRow][m.FromCol].IsKing() {
		if side == board.P1 {
			score += (m.FromRow - m.ToRow) * w.WAdvance
		} else {
			score += (m.ToRow - m.FromRow) * w.WAdvance
		}
	}

	// Penalize landing where the opponent can jump us right back.
	if a.exposed(out.Board, side, m.ToRow, m.ToCol) {
		score -= w.WSafety
	}

	if m.ToCol >= 2 && m.ToCol <= 5 {
		score += w.WCenter
	}
	return score
}

// exposed reports whether the opponent has a jump over (row, col) in the
// given position.
func (a *Romano) exposed(b board.Board, side board.Side, row, col int) bool {
	for _, m := range rules.LegalMoves(b, side.Opponent(), nil) {
		if !m.IsCapture() {
			continue
		}
		if vr, vc := m.CapturedSquare(); vr == row && vc == col {
			return true
		}
	}
	return false
}
