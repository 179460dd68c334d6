package realtime

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Client-sent events.
const (
	eventAuthenticate = "authenticate"
	eventJoinRoom     = "join_room"
	eventLeaveRoom    = "leave_room"
)

const writeWait = 10 * time.Second

// clientMessage is what clients send over the socket.
type clientMessage struct {
	Event string `json:"event"`
	Token string `json:"token,omitempty"`
	Room  string `json:"room,omitempty"`
}

// VerifyToken resolves a bearer token to a user id.
type VerifyToken func(token string) (userID string, err error)

// UpgradeGate rejects plain HTTP requests to the websocket path.
func UpgradeGate(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler upgrades the connection and runs the session: clients first
// authenticate with a token, then join rooms; the hub pushes envelopes back
// through the write pump until either side goes away.
func Handler(hub *Hub, verify VerifyToken) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := NewClient()
		hub.Register(client)

		// Write pump. Exits when the hub closes Send.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for env := range client.Send {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(env); err != nil {
					return
				}
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		}()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}

			var msg clientMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				client.trySend(Envelope{Event: "error", Data: "malformed message"})
				continue
			}

			switch msg.Event {
			case eventAuthenticate:
				userID, err := verify(msg.Token)
				if err != nil {
					client.trySend(Envelope{Event: "error", Data: "authentication failed"})
					continue
				}
				client.SetUserID(userID)
				client.trySend(Envelope{Event: "authenticated"})

			case eventJoinRoom:
				if !client.Authenticated() {
					client.trySend(Envelope{Event: "error", Data: "authenticate first"})
					continue
				}
				if msg.Room == "" {
					client.trySend(Envelope{Event: "error", Data: "room is required"})
					continue
				}
				hub.Join(client, msg.Room)
				client.trySend(Envelope{Event: "joined", Room: msg.Room})

			case eventLeaveRoom:
				hub.Leave(client, msg.Room)
				client.trySend(Envelope{Event: "left", Room: msg.Room})

			default:
				client.trySend(Envelope{Event: "error", Data: "unknown event"})
			}
		}

		// Unregister closes Send, which lets the write pump finish.
		hub.Unregister(client)
		<-done
		conn.Close()
	})
}
