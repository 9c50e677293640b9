package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andjpython/Jogo-de-damas/internal/room"
	"github.com/andjpython/Jogo-de-damas/internal/rules"
	"github.com/andjpython/Jogo-de-damas/internal/session"
)

var errSessionNotFound = errors.New("session not found")

// ConfigureHandler creates a session and starts a local or vs-computer game.
func ConfigureHandler(reg *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ConfigureRequest
		if err := c.BindJSON(&req); err != nil || req.Player1Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "player1_name required"})
			return
		}
		mode := session.Mode(req.Mode)
		if mode != session.ModeLocal && mode != session.ModeComputer {
			mode = session.ModeLocal
		}
		s := reg.Create()
		if err := s.Configure(req.Player1Name, req.Player2Name, mode); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "success",
			"session_id": s.ID(),
			"game_state": s.Snapshot(),
		})
	}
}

// GameStateHandler returns the session snapshot.
func GameStateHandler(reg *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := reg.Get(c.Query("session_id"))
		if !ok {
			fail(c, errSessionNotFound)
			return
		}
		c.JSON(http.StatusOK, s.Snapshot())
	}
}

// MoveHandler submits one move leg.
func MoveHandler(reg *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MoveRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid payload"})
			return
		}
		s, ok := reg.Get(req.SessionID)
		if !ok {
			fail(c, errSessionNotFound)
			return
		}
		mv := rules.Move{FromRow: req.StartRow, FromCol: req.StartCol, ToRow: req.EndRow, ToCol: req.EndCol}
		if err := s.SubmitMove(mv, req.MoveTime); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "success",
			"message":    "move applied",
			"game_state": s.Snapshot(),
		})
	}
}

// AIMoveHandler plays the computer side's full turn.
func AIMoveHandler(reg *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sessionFromBody(c, reg)
		if !ok {
			return
		}
		if err := s.RequestAIMove(); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "game_state": s.Snapshot()})
	}
}

// TimeoutHandler reports that the side to move let the turn clock expire.
func TimeoutHandler(reg *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sessionFromBody(c, reg)
		if !ok {
			return
		}
		if err := s.Timeout(); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "game_state": s.Snapshot()})
	}
}

// SurrenderHandler concedes for the side to move.
func SurrenderHandler(reg *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sessionFromBody(c, reg)
		if !ok {
			return
		}
		if err := s.SurrenderTurn(); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "game_state": s.Snapshot()})
	}
}

// ResetHandler restarts the session with the same players.
func ResetHandler(reg *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sessionFromBody(c, reg)
		if !ok {
			return
		}
		if err := s.Reset(); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "game_state": s.Snapshot()})
	}
}

// RoomsHandler lists the multiplayer rooms still waiting for a guest.
func RoomsHandler(d *room.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": d.ListOpen()})
	}
}

func sessionFromBody(c *gin.Context, reg *session.Registry) (*session.Session, bool) {
	var req SessionRequest
	if err := c.BindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "session_id required"})
		return nil, false
	}
	s, ok := reg.Get(req.SessionID)
	if !ok {
		fail(c, errSessionNotFound)
		return nil, false
	}
	return s, true
}

// fail maps the error taxonomy to HTTP codes. User errors never mutate
// session state; the invariant violation is the one server-side failure.
func fail(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, errSessionNotFound), errors.Is(err, room.ErrRoomNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrAlreadyStarted), errors.Is(err, room.ErrRoomFull):
		status = http.StatusConflict
	case errors.Is(err, session.ErrEngineInvariant):
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"status": "error", "message": err.Error()})
}
