package ws

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

type topicMessage struct {
	conversationID uuid.UUID
	payload        []byte
}

// Hub tracks websocket clients per conversation. All membership changes happen on the Run
// goroutine; ClientCount and ConversationClients read under the mutex.
type Hub struct {
	rooms      map[uuid.UUID]map[*Client]bool
	broadcast  chan topicMessage
	register   chan *Client
	unregister chan *Client
	reset      chan string
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		broadcast:  make(chan topicMessage, 1024),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		reset:      make(chan string),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves register, unregister and broadcast requests until ctx is done, then closes
// every remaining client. A hub runs once; requests made after Run returns never block.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case reason := <-h.reset:
			if n := h.closeAll(); n > 0 && h.logger != nil {
				h.logger.Printf("WS clients reset | clients=%d reason=%s", n, reason)
			}

		case client := <-h.register:
			h.mutex.Lock()
			room, ok := h.rooms[client.conversationID]
			if !ok {
				room = make(map[*Client]bool)
				h.rooms[client.conversationID] = room
			}
			room[client] = true
			total := len(room)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS connected | conversation_id=%s user_id=%s room_clients=%d", client.conversationID, client.userID, total)
			}

		case client := <-h.unregister:
			if h.remove(client) && h.logger != nil {
				h.logger.Printf("WS disconnected | conversation_id=%s user_id=%s", client.conversationID, client.userID)
			}

		case msg := <-h.broadcast:
			h.mutex.RLock()
			room := h.rooms[msg.conversationID]
			snapshot := make([]*Client, 0, len(room))
			for c := range room {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- msg.payload:
				default:
					h.remove(client)
					if h.logger != nil {
						h.logger.Printf("WS client dropped | conversation_id=%s user_id=%s reason=slow_consumer", client.conversationID, client.userID)
					}
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	room, ok := h.rooms[client.conversationID]
	if !ok || !room[client] {
		return false
	}
	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.rooms, client.conversationID)
	}
	return true
}

func (h *Hub) closeAll() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for id, room := range h.rooms {
		for c := range room {
			close(c.send)
			n++
		}
		delete(h.rooms, id)
	}
	return n
}

// Register adds client to its conversation room. Once the hub has stopped the client's send
// channel is closed instead, so its write pump ends the connection.
func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Reset disconnects every client. Clients reconnect and reload history, which covers any
// event missed while fan-out was interrupted.
func (h *Hub) Reset(reason string) {
	if h == nil {
		return
	}
	select {
	case h.reset <- reason:
	case <-h.done:
	}
}

// Broadcast queues payload for every client of conversationID. It never blocks; when the
// queue is full the payload is dropped.
func (h *Hub) Broadcast(conversationID uuid.UUID, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- topicMessage{conversationID: conversationID, payload: payload}:
	default:
		if h.logger != nil {
			h.logger.Printf("WS broadcast dropped | conversation_id=%s reason=buffer_full", conversationID)
		}
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	total := 0
	for _, room := range h.rooms {
		total += len(room)
	}
	return total
}

func (h *Hub) ConversationClients(conversationID uuid.UUID) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[conversationID])
}
