package room

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/andjpython/Jogo-de-damas/internal/session"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room already full")
)

// Codes avoid 0/O/1/I so players can read them out loud.
const codeLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// Directory is the registry of multiplayer rooms. Every mutation and lookup
// takes the directory lock, which linearizes the room-code keyspace:
// concurrent create/join/leave never collide on a code or lose a room.
// Lookups return copies, so no caller ever reads a stored Room while another
// goroutine is seating a guest in it.
type Directory struct {
	mu       sync.Mutex
	store    Store
	sessions *session.Registry
	log      zerolog.Logger
}

func NewDirectory(store Store, sessions *session.Registry, log zerolog.Logger) *Directory {
	return &Directory{
		store:    store,
		sessions: sessions,
		log:      log.With().Str("component", "rooms").Logger(),
	}
}

// CreateRoom opens a pending room for the host and returns it. The code is
// regenerated until it does not collide with an open room.
func (d *Directory) CreateRoom(hostID, hostName string) Room {
	d.mu.Lock()
	defer d.mu.Unlock()

	code := randCode(codeLength)
	for _, taken := d.store.GetRoom(code); taken; _, taken = d.store.GetRoom(code) {
		code = randCode(codeLength)
	}
	r := &Room{
		Code:      code,
		HostID:    hostID,
		HostName:  hostName,
		Status:    StatusWaiting,
		CreatedAt: time.Now(),
	}
	d.store.SaveRoom(r)
	d.log.Info().Str("room", code).Str("host", hostName).Msg("room created")
	return *r
}

// JoinRoom seats the guest and starts the session: host plays Player1, guest
// Player2. Codes are case-insensitive.
func (d *Directory) JoinRoom(code, guestID, guestName string) (Room, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.store.GetRoom(normalize(code))
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	if r.GuestID != "" || r.Status != StatusWaiting {
		return Room{}, ErrRoomFull
	}

	s := d.sessions.Create()
	if err := s.Configure(r.HostName, guestName, session.ModeMultiplayer); err != nil {
		d.sessions.Delete(s.ID())
		return Room{}, err
	}
	r.GuestID = guestID
	r.GuestName = guestName
	r.Session = s
	r.Status = StatusPlaying
	d.store.SaveRoom(r)
	d.log.Info().Str("room", r.Code).Str("guest", guestName).Msg("room full, game started")
	return *r, nil
}

// OpenRoom is one row of the open-room listing.
type OpenRoom struct {
	RoomCode  string    `json:"room_code"`
	HostName  string    `json:"host_name"`
	CreatedAt time.Time `json:"created_at"`
}

// ListOpen returns a fresh snapshot of the rooms still waiting for a guest.
// It is recomputed on every call, not a live view.
func (d *Directory) ListOpen() []OpenRoom {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := []OpenRoom{}
	for _, r := range d.store.AllRooms() {
		if r.Status == StatusWaiting && r.GuestID == "" {
			out = append(out, OpenRoom{RoomCode: r.Code, HostName: r.HostName, CreatedAt: r.CreatedAt})
		}
	}
	return out
}

// Get returns a copy of the room, taken under the directory lock.
func (d *Directory) Get(code string) (Room, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.store.GetRoom(normalize(code))
	if !ok {
		return Room{}, false
	}
	return *r, true
}

// Departure reports what a Leave did, so the transport can notify the peer.
type Departure struct {
	Room    Room
	WasHost bool
	// PeerID is the remaining participant to notify; empty if nobody is left.
	PeerID string
}

// Leave removes a participant. A host abandoning an unpaired room deletes it
// outright. Leaving an active room finalizes the game (the leaver forfeits if
// it was still running) and closes the room; there is no rejoin.
func (d *Directory) Leave(code, participantID string) (Departure, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.store.GetRoom(normalize(code))
	if !ok {
		return Departure{}, ErrRoomNotFound
	}
	side, member := r.SideOf(participantID)
	if !member {
		return Departure{}, ErrRoomNotFound
	}

	dep := Departure{Room: *r, WasHost: participantID == r.HostID}
	if peer, ok := r.PeerOf(participantID); ok {
		dep.PeerID = peer
	}
	if r.Session != nil {
		// Finalize before tearing down; a surrender on a finished game is a
		// no-op error we do not care about.
		_ = r.Session.Surrender(side)
		d.sessions.Delete(r.Session.ID())
	}
	d.store.DeleteRoom(r.Code)
	d.log.Info().Str("room", r.Code).Bool("host_left", dep.WasHost).Msg("room closed")
	return dep, nil
}

// CleanupStale drops waiting rooms nobody joined within maxAge and returns
// how many were removed.
func (d *Directory) CleanupStale(maxAge time.Duration) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	cutoff := time.Now().Add(-maxAge)
	for _, r := range d.store.AllRooms() {
		if r.Status == StatusWaiting && r.CreatedAt.Before(cutoff) {
			d.store.DeleteRoom(r.Code)
			n++
		}
	}
	if n > 0 {
		d.log.Info().Int("rooms", n).Msg("stale rooms removed")
	}
	return n
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func randCode(n int) string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	b := make([]byte, n)
	for i := range b {
		b[i] = codeLetters[r.Intn(len(codeLetters))]
	}
	return string(b)
}
