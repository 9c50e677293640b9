package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/andjpython/Jogo-de-damas/internal/config"
	"github.com/andjpython/Jogo-de-damas/internal/room"
	"github.com/andjpython/Jogo-de-damas/internal/session"
	"github.com/andjpython/Jogo-de-damas/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{TurnSeconds: 60, TimeoutPolicy: config.TimeoutPass}
	reg := session.NewRegistry(cfg, nil, zerolog.Nop())
	directory := room.NewDirectory(store.NewMemoryStore(), reg, zerolog.Nop())
	hub := NewHub(directory, zerolog.Nop())

	r := gin.New()
	r.GET("/ws", hub.HandleWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := strings.Replace(srv.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	expect(t, conn, "connected")
	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, data any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]any{"action": action, "data": data}))
}

// expect reads the next message and requires the given action, returning the
// decoded payload.
func expect(t *testing.T, conn *websocket.Conn, action string) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg struct {
		Action string          `json:"action"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, action, msg.Action)
	out := map[string]any{}
	if len(msg.Data) > 0 {
		require.NoError(t, json.Unmarshal(msg.Data, &out))
	}
	return out
}

func gameState(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()
	state, ok := payload["game_state"].(map[string]any)
	require.True(t, ok)
	return state
}

func pairUp(t *testing.T, srv *httptest.Server) (host, guest *websocket.Conn, code string) {
	t.Helper()
	host = dial(t, srv)
	send(t, host, "create_room", map[string]any{"player_name": "Host"})
	created := expect(t, host, "room_created")
	code = created["room_code"].(string)

	guest = dial(t, srv)
	send(t, guest, "join_room", map[string]any{"room_code": code, "player_name": "Guest"})

	hostJoin := expect(t, host, "room_joined")
	require.Equal(t, true, hostJoin["is_player1"])
	guestJoin := expect(t, guest, "room_joined")
	require.Equal(t, false, guestJoin["is_player1"])

	hostState := gameState(t, expect(t, host, "game_started"))
	require.Equal(t, float64(1), hostState["turn"])
	require.Equal(t, "multiplayer", hostState["mode"])
	require.Equal(t, "Host", hostState["player1_name"])
	require.Equal(t, "Guest", hostState["player2_name"])
	expect(t, guest, "game_started")
	return host, guest, code
}

func TestCreateJoinAndMove(t *testing.T) {
	srv := newTestServer(t)
	host, guest, _ := pairUp(t, srv)

	send(t, host, "make_move", map[string]any{
		"from_row": 5, "from_col": 0, "to_row": 4, "to_col": 1, "move_time": 2,
	})
	hostState := gameState(t, expect(t, host, "move_result"))
	require.Equal(t, float64(2), hostState["turn"])
	guestState := gameState(t, expect(t, guest, "move_result"))
	require.Equal(t, float64(2), guestState["turn"], "both participants see the same authoritative state")

	// A replay of the same move after the turn passed: the error goes to the
	// sender only, nothing is broadcast, nothing is double-applied.
	send(t, host, "make_move", map[string]any{
		"from_row": 5, "from_col": 0, "to_row": 4, "to_col": 1, "move_time": 2,
	})
	expect(t, host, "move_error")

	send(t, guest, "make_move", map[string]any{
		"from_row": 2, "from_col": 1, "to_row": 3, "to_col": 0, "move_time": 1,
	})
	expect(t, host, "move_result")
	state := gameState(t, expect(t, guest, "move_result"))
	require.Equal(t, float64(1), state["turn"])
	require.Equal(t, float64(12), state["p1_pieces"])
	require.Equal(t, float64(12), state["p2_pieces"])
}

func TestMoveOutOfTurnRejected(t *testing.T) {
	srv := newTestServer(t)
	_, guest, _ := pairUp(t, srv)

	// Guest tries to move while it is the host's turn.
	send(t, guest, "make_move", map[string]any{
		"from_row": 2, "from_col": 1, "to_row": 3, "to_col": 0,
	})
	expect(t, guest, "move_error")
}

func TestJoinErrors(t *testing.T) {
	srv := newTestServer(t)

	conn := dial(t, srv)
	send(t, conn, "join_room", map[string]any{"room_code": "NOSUCH", "player_name": "Bob"})
	expect(t, conn, "join_error")

	host, _, code := pairUp(t, srv)
	_ = host
	third := dial(t, srv)
	send(t, third, "join_room", map[string]any{"room_code": code, "player_name": "Carol"})
	expect(t, third, "join_error")
}

func TestGetRooms(t *testing.T) {
	srv := newTestServer(t)

	conn := dial(t, srv)
	send(t, conn, "get_rooms", nil)
	rooms := expect(t, conn, "rooms_list")["rooms"].([]any)
	require.Empty(t, rooms)

	host := dial(t, srv)
	send(t, host, "create_room", map[string]any{"player_name": "Host"})
	expect(t, host, "room_created")

	send(t, conn, "get_rooms", nil)
	rooms = expect(t, conn, "rooms_list")["rooms"].([]any)
	require.Len(t, rooms, 1)
	first := rooms[0].(map[string]any)
	require.Equal(t, "Host", first["host_name"])
}

func TestSurrenderBroadcastsGameOver(t *testing.T) {
	srv := newTestServer(t)
	host, guest, _ := pairUp(t, srv)

	send(t, guest, "surrender", nil)
	hostState := gameState(t, expect(t, host, "game_over"))
	require.Equal(t, "Host", hostState["winner"])
	guestState := gameState(t, expect(t, guest, "game_over"))
	require.Equal(t, "Host", guestState["winner"])
}

func TestDisconnectNotifiesPeer(t *testing.T) {
	srv := newTestServer(t)
	host, guest, _ := pairUp(t, srv)

	require.NoError(t, host.Close())
	expect(t, guest, "host_left")
}

func TestPeerCanStartNewRoomAfterOpponentLeaves(t *testing.T) {
	srv := newTestServer(t)
	host, guest, _ := pairUp(t, srv)

	require.NoError(t, host.Close())
	expect(t, guest, "host_left")

	// The old room is gone; a move against it is rejected without killing
	// the connection.
	send(t, guest, "make_move", map[string]any{
		"from_row": 2, "from_col": 1, "to_row": 3, "to_col": 0,
	})
	expect(t, guest, "move_error")

	// The stale membership does not block opening a fresh room.
	send(t, guest, "create_room", map[string]any{"player_name": "Guest"})
	created := expect(t, guest, "room_created")
	require.NotEmpty(t, created["room_code"])
}

func TestUnknownActionGetsErrorReply(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)
	send(t, conn, "dance", nil)
	expect(t, conn, "error")
}
