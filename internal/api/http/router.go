package http

import (
	"github.com/gin-gonic/gin"

	"github.com/andjpython/Jogo-de-damas/internal/api/ws"
	"github.com/andjpython/Jogo-de-damas/internal/room"
	"github.com/andjpython/Jogo-de-damas/internal/session"
)

func NewRouter(reg *session.Registry, directory *room.Directory, hub *ws.Hub) *gin.Engine {
	r := gin.Default()

	// Multiplayer sync protocol
	r.GET("/ws", hub.HandleWS)

	// --- SESSION ENDPOINTS (local and vs-computer games) ---
	r.POST("/configure", ConfigureHandler(reg))
	r.GET("/game-state", GameStateHandler(reg))
	r.POST("/move", MoveHandler(reg))
	r.POST("/ai-move", AIMoveHandler(reg))
	r.POST("/timeout", TimeoutHandler(reg))
	r.POST("/surrender", SurrenderHandler(reg))
	r.POST("/reset", ResetHandler(reg))

	// --- ROOM ENDPOINTS ---
	r.GET("/rooms", RoomsHandler(directory))

	return r
}
