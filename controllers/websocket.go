package controllers

import (
	"net/http"
	"sync"

	"github.com/Danidiaz0799/fungicloud/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsClient struct {
	conn   *websocket.Conn
	userID uint
}

var (
	wsClients   = make(map[*websocket.Conn]wsClient)
	wsClientsMu sync.Mutex
)

// HandleWebSocket upgrades the connection and keeps it registered for live
// sync and alert pushes until the client disconnects.
func HandleWebSocket(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	wsClientsMu.Lock()
	wsClients[conn] = wsClient{conn: conn, userID: userID}
	wsClientsMu.Unlock()

	// Read loop only exists to detect disconnects.
	go func() {
		defer func() {
			wsClientsMu.Lock()
			delete(wsClients, conn)
			wsClientsMu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcastToUser sends one JSON message to every connection of the user.
func broadcastToUser(userID uint, message gin.H) {
	wsClientsMu.Lock()
	defer wsClientsMu.Unlock()

	for conn, client := range wsClients {
		if client.userID != userID {
			continue
		}
		if err := conn.WriteJSON(message); err != nil {
			conn.Close()
			delete(wsClients, conn)
		}
	}
}

// BroadcastSyncUpdate pushes a freshly ingested reading to the owner.
func BroadcastSyncUpdate(userID uint, data *models.SyncData) {
	broadcastToUser(userID, gin.H{"type": "sync_update", "data": data})
}

// BroadcastServerOffline pushes an offline transition to the owner.
func BroadcastServerOffline(server models.LocalServer) {
	broadcastToUser(server.UserID, gin.H{"type": "server_offline", "server": server})
}
