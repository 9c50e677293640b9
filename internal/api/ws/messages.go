package ws

import (
	"encoding/json"

	"github.com/andjpython/Jogo-de-damas/internal/room"
	"github.com/andjpython/Jogo-de-damas/internal/session"
)

// envelope is the wire format in both directions: an action for routing and a
// payload decoded per action. Every client module speaks this one schema.
type envelope struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type outMessage struct {
	Action string `json:"action"`
	Data   any    `json:"data,omitempty"`
}

// Client -> server payloads.

type createRoomRequest struct {
	PlayerName string `json:"player_name"`
}

type joinRoomRequest struct {
	RoomCode   string `json:"room_code"`
	PlayerName string `json:"player_name"`
}

type makeMoveRequest struct {
	FromRow  int     `json:"from_row"`
	FromCol  int     `json:"from_col"`
	ToRow    int     `json:"to_row"`
	ToCol    int     `json:"to_col"`
	MoveTime float64 `json:"move_time"`
}

// Server -> client payloads.

type connectedPayload struct {
	ParticipantID string `json:"participant_id"`
}

type roomCreatedPayload struct {
	RoomCode string `json:"room_code"`
}

type roomJoinedPayload struct {
	RoomCode  string `json:"room_code"`
	IsPlayer1 bool   `json:"is_player1"`
}

type roomsListPayload struct {
	Rooms []room.OpenRoom `json:"rooms"`
}

type statePayload struct {
	GameState session.Snapshot `json:"game_state"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type peerLeftPayload struct {
	RoomCode string `json:"room_code"`
}
