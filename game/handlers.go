package game

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pretzelhammer/drawduel2/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origins are filtered by the router middleware before we get here
	CheckOrigin: func(*http.Request) bool { return true },
}

type Handler struct {
	room *Room
}

func NewHandler(room *Room) *Handler {
	return &Handler{room: room}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/game/ws", h.WsHandler)
}

// WsHandler registers the caller with the room, then upgrades. The order
// matters: registration errors must surface as proper HTTP statuses with
// a stable reason code, which is impossible after the upgrade.
func (h *Handler) WsHandler(ctx *gin.Context) {
	pass := ctx.Query("pass")
	if pass == "" {
		ctx.String(http.StatusBadRequest, "missing-pass")
		return
	}
	name := ctx.Query("name")
	if name == "" {
		// an authenticated session supplies a default display name
		name = ctx.GetString("username")
	}

	id, snapshot, sub, err := h.room.Connect(ctx.Request.Context(), name, pass)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyConnected):
			ctx.String(http.StatusConflict, ErrAlreadyConnected.Error())
		case errors.Is(err, ErrFullGame):
			ctx.String(http.StatusServiceUnavailable, ErrFullGame.Error())
		default:
			ctx.String(http.StatusInternalServerError, "unknown-error")
		}
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Warningf("ws upgrade failed for player %d: %v", id, err)
		h.room.Disconnect(id)
		return
	}
	socket := NewWebsocketConnection(conn)

	// direct snapshot reply first, deltas follow through the pump
	if err := socket.Write(snapshot); err != nil {
		logger.Warningf("snapshot write failed for player %d: %v", id, err)
		socket.Close("snapshot-failed")
		h.room.Disconnect(id)
		return
	}

	session := NewSession(id, h.room, socket, sub)
	go session.WritePump()
	go session.ReadPump()
}
