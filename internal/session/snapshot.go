package session

import (
	"github.com/andjpython/Jogo-de-damas/internal/board"
)

// Snapshot is the full externally-visible state of a session: the one read
// path shared by renderers and the multiplayer broadcast.
type Snapshot struct {
	SessionID   string      `json:"session_id"`
	Status      Status      `json:"status"`
	Mode        Mode        `json:"mode"`
	Board       board.Board `json:"board"`
	Turn        board.Side  `json:"turn"`
	TurnName    string      `json:"turn_name"`
	Player1Name string      `json:"player1_name"`
	Player2Name string      `json:"player2_name"`
	P1Pieces    int         `json:"p1_pieces"`
	P2Pieces    int         `json:"p2_pieces"`
	P1AvgTime   float64     `json:"p1_avg_time"`
	P2AvgTime   float64     `json:"p2_avg_time"`
	// Winner is the winning player's display name, null while the game runs.
	Winner *string `json:"winner"`
	// MustContinue flags an active capture chain; ChainRow/ChainCol point at
	// the only piece allowed to move.
	MustContinue bool `json:"must_continue"`
	ChainRow     int  `json:"chain_row,omitempty"`
	ChainCol     int  `json:"chain_col,omitempty"`
	// Deadline is the unix timestamp the current turn must be played by.
	Deadline    int64 `json:"deadline"`
	TurnSeconds int   `json:"turn_seconds"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID:   s.id,
		Status:      s.status,
		Mode:        s.mode,
		Board:       s.board,
		Turn:        s.turn,
		TurnName:    s.names[s.turn],
		Player1Name: s.names[board.P1],
		Player2Name: s.names[board.P2],
		P1Pieces:    s.board.Count(board.P1),
		P2Pieces:    s.board.Count(board.P2),
		Deadline:    s.deadline.Unix(),
		TurnSeconds: s.turnSeconds,
	}
	if st := s.stats[board.P1]; st != nil {
		snap.P1AvgTime = st.average()
	}
	if st := s.stats[board.P2]; st != nil {
		snap.P2AvgTime = st.average()
	}
	if s.winner != 0 {
		name := s.names[s.winner]
		snap.Winner = &name
	}
	if s.chain != nil {
		snap.MustContinue = true
		snap.ChainRow = s.chain.Row
		snap.ChainCol = s.chain.Col
	}
	return snap
}
