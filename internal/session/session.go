package session

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/andjpython/Jogo-de-damas/internal/board"
	"github.com/andjpython/Jogo-de-damas/internal/config"
	"github.com/andjpython/Jogo-de-damas/internal/rules"
)

var (
	ErrAlreadyStarted  = errors.New("game already started")
	ErrNotStarted      = errors.New("game not started")
	ErrGameFinished    = errors.New("game already finished")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrIllegalMove     = errors.New("illegal move")
	ErrEngineInvariant = errors.New("engine invariant violation")
)

type Status string

const (
	StatusAwaitingStart Status = "awaiting_start"
	StatusInProgress    Status = "in_progress"
	StatusFinished      Status = "finished"
	// StatusFailed marks a session killed by an engine invariant violation.
	// Every further operation fails until the session is discarded.
	StatusFailed Status = "failed"
)

type Mode string

const (
	ModeLocal       Mode = "pvp"
	ModeComputer    Mode = "pvc"
	ModeMultiplayer Mode = "multiplayer"
)

// MoveProposer is the computer-player collaborator. The returned move must be
// in rules.LegalMoves for the exact state it was shown, chain included; an
// illegal proposal is an integration bug, never silently corrected.
type MoveProposer interface {
	ProposeMove(b board.Board, side board.Side, chain *rules.Chain) (rules.Move, error)
}

type playerStats struct {
	totalSeconds float64
	moves        int
}

func (p playerStats) average() float64 {
	if p.moves == 0 {
		return 0
	}
	return math.Round(p.totalSeconds/float64(p.moves)*10) / 10
}

// Session owns one live game. Every mutation goes through its mutex, so
// operations against one session execute strictly in arrival order no matter
// how many connections reference it.
type Session struct {
	mu sync.Mutex

	id     string
	log    zerolog.Logger
	status Status
	mode   Mode

	board  board.Board
	turn   board.Side
	chain  *rules.Chain
	winner board.Side

	names map[board.Side]string
	stats map[board.Side]*playerStats

	turnSeconds   int
	timeoutPolicy config.TimeoutPolicy
	deadline      time.Time

	proposer MoveProposer
	aiSide   board.Side
}

func New(id string, cfg config.Config, proposer MoveProposer, log zerolog.Logger) *Session {
	return &Session{
		id:            id,
		log:           log.With().Str("session", id).Logger(),
		status:        StatusAwaitingStart,
		names:         map[board.Side]string{},
		stats:         map[board.Side]*playerStats{},
		turnSeconds:   cfg.TurnSeconds,
		timeoutPolicy: cfg.TimeoutPolicy,
		proposer:      proposer,
	}
}

func (s *Session) ID() string { return s.id }

// Deadline returns the instant the current turn must be played by. The
// snapshot carries it truncated to unix seconds for the wire; timer code
// wants the full precision.
func (s *Session) Deadline() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadline
}

// Configure transitions AwaitingStart to InProgress with the standard opening
// layout and fresh clocks. Calling it twice without a reset fails.
func (s *Session) Configure(p1Name, p2Name string, mode Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusFailed {
		return ErrEngineInvariant
	}
	if s.status != StatusAwaitingStart {
		return ErrAlreadyStarted
	}
	s.names[board.P1] = p1Name
	s.names[board.P2] = p2Name
	s.mode = mode
	s.aiSide = 0
	if mode == ModeComputer {
		s.aiSide = board.P2
	}
	s.startLocked()
	s.log.Info().Str("p1", p1Name).Str("p2", p2Name).Str("mode", string(mode)).Msg("game configured")
	return nil
}

// Reset restarts the session with the same names and mode. Valid once the
// session has been configured at least once.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusFailed {
		return ErrEngineInvariant
	}
	if s.status == StatusAwaitingStart {
		return ErrNotStarted
	}
	s.startLocked()
	s.log.Info().Msg("game reset")
	return nil
}

func (s *Session) startLocked() {
	s.board = board.NewStarting()
	s.turn = board.P1
	s.chain = nil
	s.winner = 0
	s.stats[board.P1] = &playerStats{}
	s.stats[board.P2] = &playerStats{}
	s.status = StatusInProgress
	s.resetClockLocked()
}

func (s *Session) resetClockLocked() {
	s.deadline = time.Now().Add(time.Duration(s.turnSeconds) * time.Second)
}

func (s *Session) inProgressLocked() error {
	switch s.status {
	case StatusInProgress:
		return nil
	case StatusAwaitingStart:
		return ErrNotStarted
	case StatusFailed:
		return ErrEngineInvariant
	default:
		return ErrGameFinished
	}
}

// SubmitMove validates and applies one leg for the side whose turn it is.
// Rejections leave the session untouched. elapsedSeconds feeds the mover's
// rolling average move time.
func (s *Session) SubmitMove(m rules.Move, elapsedSeconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(m, elapsedSeconds)
}

// SubmitMoveAs is the multiplayer entry point: the transport names which side
// the sender owns, and a move out of turn (including a duplicate replay after
// the turn already passed) is rejected before the piece is even looked at.
func (s *Session) SubmitMoveAs(side board.Side, m rules.Move, elapsedSeconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inProgressLocked(); err != nil {
		return err
	}
	if side != s.turn {
		return ErrNotYourTurn
	}
	return s.submitLocked(m, elapsedSeconds)
}

func (s *Session) submitLocked(m rules.Move, elapsedSeconds float64) error {
	if err := s.inProgressLocked(); err != nil {
		return err
	}
	if !board.InBounds(m.FromRow, m.FromCol) || !board.InBounds(m.ToRow, m.ToCol) {
		return rules.ErrInvalidCoordinate
	}
	if owner, ok := s.board[m.FromRow][m.FromCol].Owner(); !ok || owner != s.turn {
		return ErrNotYourTurn
	}
	if !contains(rules.LegalMoves(s.board, s.turn, s.chain), m) {
		return ErrIllegalMove
	}
	s.applyLocked(m, elapsedSeconds)
	return nil
}

// applyLocked plays a pre-validated leg and advances the state machine.
func (s *Session) applyLocked(m rules.Move, elapsedSeconds float64) {
	out := rules.Apply(s.board, s.turn, m, s.chain)
	s.board = out.Board

	st := s.stats[s.turn]
	st.totalSeconds += elapsedSeconds
	st.moves++

	ev := s.log.Info().
		Int("from_row", m.FromRow).Int("from_col", m.FromCol).
		Int("to_row", m.ToRow).Int("to_col", m.ToCol).
		Bool("capture", out.Captured).Bool("promoted", out.Promoted)

	if out.MustContinue {
		// Same side keeps playing: only the landed piece's jumps are legal.
		s.chain = out.Chain
		ev.Bool("must_continue", true).Msg("move applied")
		s.resetClockLocked()
		return
	}
	s.chain = nil
	s.turn = s.turn.Opponent()
	s.resetClockLocked()
	ev.Str("next_turn", s.turn.String()).Msg("move applied")
	s.checkTerminalLocked()
}

func (s *Session) checkTerminalLocked() {
	if winner, over := rules.Winner(s.board, s.turn, s.chain); over {
		s.winner = winner
		s.status = StatusFinished
		s.log.Info().Str("winner", winner.String()).Msg("game over")
	}
}

// Timeout is injected when the side to move let the per-turn clock expire.
// Under the pass policy the turn simply passes with the full turn time folded
// into the mover's statistic; under the forfeit policy the game ends.
func (s *Session) Timeout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inProgressLocked(); err != nil {
		return err
	}
	st := s.stats[s.turn]
	st.totalSeconds += float64(s.turnSeconds)
	st.moves++

	if s.timeoutPolicy == config.TimeoutForfeit {
		s.winner = s.turn.Opponent()
		s.status = StatusFinished
		s.log.Info().Str("winner", s.winner.String()).Msg("timeout forfeit")
		return nil
	}
	s.chain = nil
	s.turn = s.turn.Opponent()
	s.resetClockLocked()
	s.log.Info().Str("next_turn", s.turn.String()).Msg("turn timed out")
	s.checkTerminalLocked()
	return nil
}

// Surrender ends the game in favor of the other side.
func (s *Session) Surrender(side board.Side) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inProgressLocked(); err != nil {
		return err
	}
	s.winner = side.Opponent()
	s.status = StatusFinished
	s.log.Info().Str("winner", s.winner.String()).Msg("surrender")
	return nil
}

// SurrenderTurn concedes on behalf of the side to move.
func (s *Session) SurrenderTurn() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inProgressLocked(); err != nil {
		return err
	}
	s.winner = s.turn.Opponent()
	s.status = StatusFinished
	s.log.Info().Str("winner", s.winner.String()).Msg("surrender")
	return nil
}

// RequestAIMove asks the computer collaborator for the next move and applies
// it exactly like SubmitMove with zero elapsed time. Multi-jump chains are
// resolved within the same call: the collaborator is consulted once per leg
// until the turn passes. A proposal outside the legal set kills the session.
func (s *Session) RequestAIMove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inProgressLocked(); err != nil {
		return err
	}
	if s.mode != ModeComputer || s.turn != s.aiSide || s.proposer == nil {
		return ErrNotYourTurn
	}
	for s.status == StatusInProgress && s.turn == s.aiSide {
		legal := rules.LegalMoves(s.board, s.turn, s.chain)
		m, err := s.proposer.ProposeMove(s.board, s.turn, s.chain)
		if err != nil {
			return s.failLocked(err)
		}
		if !contains(legal, m) {
			return s.failLocked(ErrEngineInvariant)
		}
		s.applyLocked(m, 0)
	}
	return nil
}

func (s *Session) failLocked(err error) error {
	s.status = StatusFailed
	s.log.Error().Err(err).Msg("session failed: collaborator returned an illegal move")
	return ErrEngineInvariant
}

func contains(moves []rules.Move, m rules.Move) bool {
	for _, c := range moves {
		if c == m {
			return true
		}
	}
	return false
}
