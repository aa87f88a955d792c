package realtime

import "sync"

// Hub is the broadcast registry mapping a conversation id to the set of live
// sessions that should receive its events. It replaces the channel-layer
// groups of the previous architecture with explicit membership bookkeeping.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[string]*Client
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[uint]map[string]*Client),
	}
}

// Join adds the client to its conversation's group.
func (h *Hub) Join(client *Client) {
	h.mu.Lock()
	room := h.rooms[client.ConversationID]
	if room == nil {
		room = make(map[string]*Client)
		h.rooms[client.ConversationID] = room
	}
	room[client.ID] = client
	h.mu.Unlock()
}

// Leave removes the client from its conversation's group. Safe to call for a
// client that never joined or already left.
func (h *Hub) Leave(client *Client) {
	h.mu.Lock()
	if room, ok := h.rooms[client.ConversationID]; ok {
		delete(room, client.ID)
		if len(room) == 0 {
			delete(h.rooms, client.ConversationID)
		}
	}
	h.mu.Unlock()
}

// Broadcast delivers payload to every member of the conversation's group,
// the originating session included, and reports how many sends succeeded.
func (h *Hub) Broadcast(conversationID uint, payload []byte) int {
	h.mu.RLock()
	room := h.rooms[conversationID]
	clients := make([]*Client, 0, len(room))
	for _, client := range room {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, client := range clients {
		if err := client.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// GroupSize reports the number of live sessions in a conversation's group.
func (h *Hub) GroupSize(conversationID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[conversationID])
}

// Close terminates every tracked session and clears the registry.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0)
	for _, room := range h.rooms {
		for _, client := range room {
			clients = append(clients, client)
		}
	}
	h.rooms = make(map[uint]map[string]*Client)
	h.mu.Unlock()

	for _, client := range clients {
		client.Close(1001, "server shutdown")
	}
}
