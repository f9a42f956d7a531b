package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"camsapi/pkg/hub"
	"camsapi/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Tokens already gate the endpoint; the dashboard runs on its own origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsCommand struct {
	Action string `json:"action"`
	Group  string `json:"group"`
}

// ServeWS upgrades the connection and serves group subscriptions
// @Summary Websocket push channel
// @Description Upgrades to a websocket; clients subscribe to groups such as import:<job id> or schedule:<application id>
// @Tags Push
// @Security BearerAuth
// @Success 101 "Switching protocols"
// @Failure 401 {object} map[string]interface{} "Not authenticated"
// @Router /api/ws [get]
func serveWS(c *gin.Context) {
	actor := actorFrom(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("Websocket upgrade failed for user %d: %v", actor.UserID, err)
		return
	}

	client := hub.Get().Register(conn)
	logger.Infof("Websocket connected for user %s", actor.Username)

	defer func() {
		hub.Get().Remove(client)
		conn.Close()
		logger.Infof("Websocket disconnected for user %s", actor.Username)
	}()

	for {
		var cmd wsCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnf("Websocket read error for user %s: %v", actor.Username, err)
			}
			return
		}

		switch cmd.Action {
		case "subscribe":
			if cmd.Group != "" {
				hub.Get().Subscribe(client, cmd.Group)
			}
		case "unsubscribe":
			if cmd.Group != "" {
				hub.Get().Unsubscribe(client, cmd.Group)
			}
		default:
			logger.Debugf("Websocket: ignoring unknown action %q from user %s", cmd.Action, actor.Username)
		}
	}
}

// RegisterWSRoutes registers the websocket endpoint
func RegisterWSRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws", serveWS)
}
