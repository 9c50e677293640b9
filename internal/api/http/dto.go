package http

// ConfigureRequest starts a new local or vs-computer game.
type ConfigureRequest struct {
	Player1Name string `json:"player1_name"`
	Player2Name string `json:"player2_name"`
	Mode        string `json:"mode"`
}

// MoveRequest submits one move leg for a session.
type MoveRequest struct {
	SessionID string  `json:"session_id"`
	StartRow  int     `json:"start_row"`
	StartCol  int     `json:"start_col"`
	EndRow    int     `json:"end_row"`
	EndCol    int     `json:"end_col"`
	MoveTime  float64 `json:"move_time"`
}

// SessionRequest addresses an existing session.
type SessionRequest struct {
	SessionID string `json:"session_id"`
}
