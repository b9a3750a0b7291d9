package websocket

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"shahrdav-backend/pkg/token"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for now (you can restrict this in production)
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var jwtSecret string

// SetJWTSecret sets the JWT secret for authentication
func SetJWTSecret(secret string) {
	jwtSecret = secret
}

// HandleAdminFeed upgrades admin connections for the live registration feed.
// Auth comes from the session cookie, with a token query param fallback for
// clients that cannot send cookies on the WS handshake.
func HandleAdminFeed(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			if c, err := r.Cookie(token.CookieName); err == nil {
				tokenStr = c.Value
			}
		}

		if tokenStr == "" {
			log.Printf("❌ WebSocket: no token provided")
			http.Error(w, "Unauthorized: no token provided", http.StatusUnauthorized)
			return
		}

		claims, err := token.Verify(tokenStr, []byte(jwtSecret))
		if err != nil {
			log.Printf("❌ WebSocket: invalid token: %v", err)
			http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
			return
		}

		// Admin flag is re-checked against the database, not the token,
		// so revoked admins are cut off immediately.
		var isAdmin bool
		err = db.QueryRow("SELECT is_admin FROM users WHERE id = $1", claims.UserID).Scan(&isAdmin)
		if err != nil || !isAdmin {
			log.Printf("❌ WebSocket: user %s is not an admin", claims.UserID)
			http.Error(w, "Forbidden: admin only", http.StatusForbidden)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade error: %v", err)
			return
		}

		client := &Client{
			ID:     uuid.New().String(),
			UserID: claims.UserID,
			Send:   make(chan []byte, 256),
			Hub:    GlobalHub,
		}

		wsConn := NewConnection(conn, client)
		client.Conn = wsConn

		GlobalHub.register <- client

		welcomeMsg := &BroadcastMessage{
			Type: "connected",
			Payload: map[string]interface{}{
				"message":  "اتصال برقرار شد",
				"clientId": client.ID,
			},
		}
		client.Send <- welcomeMsg.ToJSON()

		log.Printf("✅ WebSocket: admin client %s connected (user: %s)", client.ID, claims.UserID)

		go wsConn.WritePump()
		go wsConn.ReadPump()
	}
}

// BroadcastRegistrationCreated notifies connected admins about a new registration.
func BroadcastRegistrationCreated(payload RegistrationEventPayload) {
	if GlobalHub != nil {
		GlobalHub.Broadcast(MessageTypeRegistrationCreated, payload)
	}
}

// BroadcastRegistrationCancelled notifies connected admins about a cancellation.
func BroadcastRegistrationCancelled(payload RegistrationEventPayload) {
	if GlobalHub != nil {
		GlobalHub.Broadcast(MessageTypeRegistrationCancelled, payload)
	}
}
