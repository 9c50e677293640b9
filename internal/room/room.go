package room

import (
	"time"

	"github.com/andjpython/Jogo-de-damas/internal/board"
	"github.com/andjpython/Jogo-de-damas/internal/session"
)

type Status string

const (
	// StatusWaiting: host is in, no guest yet, no session.
	StatusWaiting Status = "waiting"
	// StatusPlaying: both seats taken, session running.
	StatusPlaying Status = "playing"
)

// Room pairs two participants into one session. Host is always Player1,
// guest always Player2.
type Room struct {
	Code      string
	HostID    string
	HostName  string
	GuestID   string
	GuestName string
	Session   *session.Session
	Status    Status
	CreatedAt time.Time
}

// SideOf maps a participant to the side they play.
func (r Room) SideOf(participantID string) (board.Side, bool) {
	switch participantID {
	case r.HostID:
		return board.P1, true
	case r.GuestID:
		if r.GuestID == "" {
			return 0, false
		}
		return board.P2, true
	}
	return 0, false
}

// PeerOf returns the other participant's ID, if one is seated.
func (r Room) PeerOf(participantID string) (string, bool) {
	switch participantID {
	case r.HostID:
		return r.GuestID, r.GuestID != ""
	case r.GuestID:
		return r.HostID, r.GuestID != ""
	}
	return "", false
}

// Store is the directory's backing map. Implementations must be safe for
// concurrent use; the Directory additionally serializes every access, so the
// stored Room structs are never read while a guest is being seated.
type Store interface {
	GetRoom(code string) (*Room, bool)
	SaveRoom(r *Room)
	DeleteRoom(code string)
	AllRooms() []*Room
}
