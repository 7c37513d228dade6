package handlers

import (
	"net/http"

	"github.com/beratcankara/inoflow/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The session cookie is the access control here; browser clients
	// connect from the UI origin, tools from anywhere.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Subscribe upgrades the request to a websocket and feeds the caller
// the change events addressed to them.
func Subscribe(c *gin.Context) {
	ctx, ok := middleware.Auth(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	Hub.Serve(ctx.UserID, conn)
}
