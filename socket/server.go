package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// userRoom is the per-user room clients land in after joining with their id.
func userRoom(userID string) string {
	return "user:" + userID
}

// Server wraps the Socket.IO server and exposes per-user emission.
type Server struct {
	io *socketio.Server
}

// NewServer initializes the Socket.IO server. Clients emit "join" with their
// user id to subscribe to their own event channel.
func NewServer() *Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	io.OnEvent("/", "join", func(c socketio.Conn, userID string) {
		if userID == "" {
			log.Println("❌ Invalid userId in join request")
			return
		}
		log.Printf("👥 Socket %s joined channel for user %s\n", c.ID(), userID)
		c.Join(userRoom(userID))
	})

	io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return &Server{io: io}
}

// EmitToUser broadcasts an event to every connection in the user's room.
func (s *Server) EmitToUser(userID, event string, payload interface{}) {
	s.io.BroadcastToRoom("/", userRoom(userID), event, payload)
}

// IO exposes the underlying server for HTTP registration and lifecycle.
func (s *Server) IO() *socketio.Server {
	return s.io
}
