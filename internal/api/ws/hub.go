package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/andjpython/Jogo-de-damas/internal/board"
	"github.com/andjpython/Jogo-de-damas/internal/room"
	"github.com/andjpython/Jogo-de-damas/internal/rules"
	"github.com/andjpython/Jogo-de-damas/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// client is one websocket participant. Outbound messages go through the send
// channel and a single write pump, so broadcasts enqueued in order arrive in
// order on each connection. name and roomCode are owned by the connection's
// read loop; no other goroutine touches them.
type client struct {
	id       string
	name     string
	roomCode string
	conn     *websocket.Conn
	send     chan outMessage
}

func (c *client) writePump() {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			break
		}
	}
	_ = c.conn.Close()
}

// roomEntry tracks the connections of one room. Its mutex serializes every
// mutation-plus-broadcast for the room: two almost-simultaneous moves are
// applied and announced in strict arrival order, never interleaved.
type roomEntry struct {
	mu      sync.Mutex
	clients map[string]*client
	timer   *time.Timer
}

// Hub routes the multiplayer protocol: it owns the websocket connections and
// brokers every room action through the Directory and the room's session.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*roomEntry

	directory *room.Directory
	log       zerolog.Logger
}

func NewHub(directory *room.Directory, log zerolog.Logger) *Hub {
	return &Hub{
		rooms:     make(map[string]*roomEntry),
		directory: directory,
		log:       log.With().Str("component", "ws").Logger(),
	}
}

// HandleWS upgrades the connection and runs the read loop until the client
// disconnects. Each message is dispatched by action; unknown actions get an
// error reply instead of a dropped connection.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	cl := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan outMessage, 32),
	}
	go cl.writePump()
	cl.reply("connected", connectedPayload{ParticipantID: cl.id})

	defer h.handleDisconnect(cl)
	for {
		var msg envelope
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		h.dispatch(cl, msg)
	}
}

func (h *Hub) dispatch(cl *client, msg envelope) {
	switch msg.Action {
	case "create_room":
		h.handleCreateRoom(cl, msg.Data)
	case "join_room":
		h.handleJoinRoom(cl, msg.Data)
	case "get_rooms":
		cl.reply("rooms_list", roomsListPayload{Rooms: h.directory.ListOpen()})
	case "make_move":
		h.handleMakeMove(cl, msg.Data)
	case "surrender":
		h.handleSurrender(cl)
	case "leave_room":
		h.handleLeave(cl)
	default:
		h.log.Warn().Str("action", msg.Action).Msg("unknown action")
		cl.reply("error", errorPayload{Message: "unknown action: " + msg.Action})
	}
}

func (h *Hub) handleCreateRoom(cl *client, data json.RawMessage) {
	var req createRoomRequest
	if err := json.Unmarshal(data, &req); err != nil || req.PlayerName == "" {
		cl.reply("error", errorPayload{Message: "player_name required"})
		return
	}
	if h.inRoom(cl) {
		cl.reply("error", errorPayload{Message: "already in a room"})
		return
	}
	r := h.directory.CreateRoom(cl.id, req.PlayerName)
	cl.name = req.PlayerName
	cl.roomCode = r.Code
	h.register(r.Code, cl)
	cl.reply("room_created", roomCreatedPayload{RoomCode: r.Code})
}

func (h *Hub) handleJoinRoom(cl *client, data json.RawMessage) {
	var req joinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil || req.PlayerName == "" || req.RoomCode == "" {
		cl.reply("join_error", errorPayload{Message: "room_code and player_name required"})
		return
	}
	if h.inRoom(cl) {
		cl.reply("join_error", errorPayload{Message: "already in a room"})
		return
	}
	r, err := h.directory.JoinRoom(req.RoomCode, cl.id, req.PlayerName)
	if err != nil {
		cl.reply("join_error", errorPayload{Message: err.Error()})
		return
	}
	cl.name = req.PlayerName
	cl.roomCode = r.Code
	entry := h.register(r.Code, cl)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	for id, member := range entry.clients {
		member.reply("room_joined", roomJoinedPayload{
			RoomCode:  r.Code,
			IsPlayer1: id == r.HostID,
		})
	}
	h.broadcastLocked(entry, "game_started", statePayload{GameState: r.Session.Snapshot()})
	h.scheduleTimeoutLocked(entry, r)
}

func (h *Hub) handleMakeMove(cl *client, data json.RawMessage) {
	var req makeMoveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		cl.reply("move_error", errorPayload{Message: "invalid move payload"})
		return
	}
	r, entry, side, ok := h.playingRoom(cl)
	if !ok {
		cl.reply("move_error", errorPayload{Message: "not in an active room"})
		return
	}
	mv := rules.Move{FromRow: req.FromRow, FromCol: req.FromCol, ToRow: req.ToRow, ToCol: req.ToCol}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := r.Session.SubmitMoveAs(side, mv, req.MoveTime); err != nil {
		// Errors go back to the requester only; the session is untouched.
		cl.reply("move_error", errorPayload{Message: err.Error()})
		return
	}
	snap := r.Session.Snapshot()
	h.broadcastLocked(entry, "move_result", statePayload{GameState: snap})
	if snap.Winner != nil {
		h.broadcastLocked(entry, "game_over", statePayload{GameState: snap})
	}
	h.scheduleTimeoutLocked(entry, r)
}

func (h *Hub) handleSurrender(cl *client) {
	r, entry, side, ok := h.playingRoom(cl)
	if !ok {
		cl.reply("error", errorPayload{Message: "not in an active room"})
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := r.Session.Surrender(side); err != nil {
		cl.reply("error", errorPayload{Message: err.Error()})
		return
	}
	h.broadcastLocked(entry, "game_over", statePayload{GameState: r.Session.Snapshot()})
}

func (h *Hub) handleLeave(cl *client) {
	if cl.roomCode == "" {
		return
	}
	code := cl.roomCode
	cl.roomCode = ""
	dep, err := h.directory.Leave(code, cl.id)
	if err != nil {
		return
	}
	entry := h.unregister(code)
	if entry == nil {
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.timer != nil {
		entry.timer.Stop()
	}
	action := "guest_left"
	if dep.WasHost {
		action = "host_left"
	}
	for id, member := range entry.clients {
		if id == cl.id {
			continue
		}
		// The peer's roomCode belongs to its own read loop; it notices the
		// closed room on its next action and clears the field itself.
		member.reply(action, peerLeftPayload{RoomCode: code})
	}
	h.log.Info().Str("room", code).Str("player", cl.name).Bool("host", dep.WasHost).Msg("participant left")
}

// inRoom reports whether the client still belongs to a live room. A code left
// pointing at a room the peer already closed is cleared on the way.
func (h *Hub) inRoom(cl *client) bool {
	if cl.roomCode == "" {
		return false
	}
	if _, ok := h.directory.Get(cl.roomCode); ok {
		return true
	}
	cl.roomCode = ""
	return false
}

func (h *Hub) handleDisconnect(cl *client) {
	h.handleLeave(cl)
	close(cl.send)
}

// scheduleTimeoutLocked arms the room's passive turn timer. Expiry is
// injected through the same per-room lock as moves, so a timeout and a
// near-simultaneous move are strictly ordered, never racing.
func (h *Hub) scheduleTimeoutLocked(entry *roomEntry, r room.Room) {
	if entry.timer != nil {
		entry.timer.Stop()
	}
	if r.Session.Snapshot().Status != session.StatusInProgress {
		return
	}
	entry.timer = time.AfterFunc(time.Until(r.Session.Deadline()), func() {
		entry.mu.Lock()
		defer entry.mu.Unlock()
		if r.Session.Snapshot().Status != session.StatusInProgress || time.Now().Before(r.Session.Deadline()) {
			// A move beat the timer; the next arm is already scheduled.
			return
		}
		if err := r.Session.Timeout(); err != nil {
			return
		}
		after := r.Session.Snapshot()
		h.broadcastLocked(entry, "timeout", statePayload{GameState: after})
		if after.Winner != nil {
			h.broadcastLocked(entry, "game_over", statePayload{GameState: after})
			return
		}
		h.scheduleTimeoutLocked(entry, r)
	})
}

// playingRoom resolves the caller's active room, membership entry and side.
// The room is the directory's copy; its Session pointer is the shared,
// lock-guarded object.
func (h *Hub) playingRoom(cl *client) (room.Room, *roomEntry, board.Side, bool) {
	if cl.roomCode == "" {
		return room.Room{}, nil, 0, false
	}
	r, ok := h.directory.Get(cl.roomCode)
	if !ok || r.Session == nil {
		return room.Room{}, nil, 0, false
	}
	side, ok := r.SideOf(cl.id)
	if !ok {
		return room.Room{}, nil, 0, false
	}
	h.mu.RLock()
	entry := h.rooms[r.Code]
	h.mu.RUnlock()
	if entry == nil {
		return room.Room{}, nil, 0, false
	}
	return r, entry, side, true
}

func (h *Hub) register(code string, cl *client) *roomEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	entry, ok := h.rooms[code]
	if !ok {
		entry = &roomEntry{clients: map[string]*client{}}
		h.rooms[code] = entry
	}
	entry.mu.Lock()
	entry.clients[cl.id] = cl
	entry.mu.Unlock()
	return entry
}

func (h *Hub) unregister(code string) *roomEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	entry := h.rooms[code]
	delete(h.rooms, code)
	return entry
}

// broadcastLocked fans a message out to every connection of the room. The
// caller holds the room entry lock, so messages hit every send queue in the
// same order the session applied the mutations.
func (h *Hub) broadcastLocked(entry *roomEntry, action string, data any) {
	for _, member := range entry.clients {
		member.reply(action, data)
	}
}

// reply enqueues one message; a jammed client is dropped rather than allowed
// to stall the room.
func (c *client) reply(action string, data any) {
	select {
	case c.send <- outMessage{Action: action, Data: data}:
	default:
		_ = c.conn.Close()
	}
}
