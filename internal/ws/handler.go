package ws

import (
	"net/http"

	"earnclub/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The feed only publishes public agent numbers.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Serve returns the gin handler for the agent feed endpoint.
func Serve(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "error", err)
			return
		}

		client := NewClient(conn, hub)
		hub.Register(client)
		client.Run()
	}
}
