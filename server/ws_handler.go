package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pawtrail/pawtrail/models"
	"github.com/pawtrail/pawtrail/realtime"
	"github.com/pawtrail/pawtrail/services/jwt"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type inboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outboundFrame struct {
	Type           string    `json:"type"`
	ID             uint      `json:"id"`
	ConversationID uint      `json:"conversation_id"`
	Text           string    `json:"text"`
	SenderID       uint      `json:"sender_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// handleChatSocket upgrades the request to a websocket and attaches the caller
// to the conversation's delivery group. Auth rides on the token query param so
// browser clients can connect without custom headers. Policy failures close the
// socket with an application close code instead of an HTTP status because the
// upgrade has already happened.
func (s *Server) handleChatSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID, ok := uintParam(c, "conversationID")
		if !ok {
			return
		}

		userID := jwt.UserIDFromToken(c.Query("token"), s.Config.JWTSecret)

		ws, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}

		client := realtime.NewClient(userID, conversationID, ws)

		if userID == 0 {
			client.Close(realtime.CloseUnauthorized, "authentication required")
			return
		}
		if apiErr := s.ConversationService.EnsureParticipant(conversationID, userID); apiErr != nil {
			client.Close(realtime.CloseForbidden, "not a participant")
			return
		}

		s.Hub.Join(client)
		s.PresenceService.SetOnline(userID)
		client.Start()

		defer func() {
			s.Hub.Leave(client)
			client.Close(websocket.CloseNormalClosure, "")
			s.PresenceService.SetOffline(userID)
		}()

		s.readLoop(client, ws)
	}
}

// readLoop consumes inbound frames until the peer disconnects. Malformed
// frames, unknown types, and policy failures are dropped without a reply so a
// misbehaving client cannot probe the server through the socket.
func (s *Server) readLoop(client *realtime.Client, ws *websocket.Conn) {
	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			continue
		}
		if frame.Type != "message" {
			continue
		}

		message, apiErr := s.ConversationService.SendMessage(client.ConversationID, client.UserID, frame.Text)
		if apiErr != nil {
			if apiErr.Status >= http.StatusInternalServerError {
				log.Printf("persist chat message: %s", apiErr.Message)
			}
			continue
		}

		s.broadcastMessage(message)
	}
}

// broadcastMessage fans a persisted message out to every live member of its
// conversation group, the socket that produced it included.
func (s *Server) broadcastMessage(message *models.ChatMessage) {
	frame := outboundFrame{
		Type:           "message",
		ID:             message.ID,
		ConversationID: message.ConversationID,
		Text:           message.Text,
		SenderID:       message.SenderID,
		CreatedAt:      message.CreatedAt,
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		log.Printf("marshal outbound frame: %v", err)
		return
	}
	s.Hub.Broadcast(message.ConversationID, payload)
}
