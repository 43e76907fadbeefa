package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"showrunner/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Auth happens at the gateway; origin is not restricted here
		return true
	},
}

// ServeWS upgrades an HTTP request to a WebSocket subscription on the hub.
// Filters come from the workspace_id and event_id query parameters.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed", "error", err.Error())
		return
	}

	client := NewClient(
		uuid.New().String(),
		r.URL.Query().Get("workspace_id"),
		r.URL.Query().Get("event_id"),
	)
	hub.RegisterClient(client)

	// The request context ends when the handler returns; the pumps live for
	// the life of the hijacked connection instead.
	ctx := context.Background()
	go writePump(ctx, conn, client)
	go readPump(ctx, hub, conn, client)
}

// writePump pumps events from the hub to the websocket connection
func writePump(ctx context.Context, conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case event, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Send channel closed by the hub
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			heartbeat := TimelineEvent{Type: "heartbeat", Timestamp: time.Now()}
			if err := conn.WriteJSON(heartbeat); err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// readPump drains client messages and updates subscription filters
func readPump(ctx context.Context, hub *Hub, conn *websocket.Conn, client *Client) {
	defer func() {
		hub.UnregisterClient(client)
		_ = conn.Close()
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg map[string]interface{}
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logging.Warn("WebSocket read failed", "error", err.Error())
				}
				return
			}
			handleClientMessage(client, msg)
		}
	}
}

// handleClientMessage processes subscription changes from the client
func handleClientMessage(client *Client, msg map[string]interface{}) {
	msgType, ok := msg["type"].(string)
	if !ok {
		return
	}

	workspaceID, eventID := client.Filter()
	switch msgType {
	case "subscribe":
		if workspace, ok := msg["workspace_id"].(string); ok {
			workspaceID = workspace
		}
		if event, ok := msg["event_id"].(string); ok {
			eventID = event
		}
		client.SetFilter(workspaceID, eventID)

	case "unsubscribe":
		if _, ok := msg["workspace_id"]; ok {
			workspaceID = ""
		}
		if _, ok := msg["event_id"]; ok {
			eventID = ""
		}
		client.SetFilter(workspaceID, eventID)

	case "ping":
		pong := TimelineEvent{Type: "pong", Timestamp: time.Now()}
		select {
		case client.Send <- pong:
		default:
		}
	}
}
