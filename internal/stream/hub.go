package stream

import (
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Hub is the registry of open connections and conversation rooms. A room exists while it
// has members.
type Hub struct {
	mu    sync.RWMutex
	conns map[*Connection]struct{}
	rooms map[uuid.UUID]map[*Connection]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[*Connection]struct{}),
		rooms: make(map[uuid.UUID]map[*Connection]struct{}),
	}
}

// Register tracks an open connection that has not joined any room yet.
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

// Unregister removes conn from every room and stops tracking it.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for roomID := range conn.rooms {
		h.leaveLocked(roomID, conn)
	}
	delete(h.conns, conn)
}

// ConnectionCount returns the number of registered connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Join adds conn to the room. Joining twice is a no-op.
func (h *Hub) Join(roomID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[*Connection]struct{})
		h.rooms[roomID] = members
	}
	members[conn] = struct{}{}
	conn.rooms[roomID] = struct{}{}
}

// Leave removes conn from the room and discards the room when it becomes empty.
func (h *Hub) Leave(roomID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(roomID, conn)
}

func (h *Hub) leaveLocked(roomID uuid.UUID, conn *Connection) {
	delete(conn.rooms, roomID)
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, conn)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

// IsMember reports whether conn is bound to the room.
func (h *Hub) IsMember(roomID uuid.UUID, conn *Connection) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[roomID][conn]
	return ok
}

// Members returns a snapshot of the room's connections.
func (h *Hub) Members(roomID uuid.UUID) []*Connection {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.Keys(h.rooms[roomID])
}

// RoomCount returns the number of non-empty rooms.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// Broadcast enqueues frame on every member of the room and returns how many accepted it.
// The lock is released before enqueueing, so a slow member cannot stall the registry.
func (h *Hub) Broadcast(roomID uuid.UUID, frame []byte) int {
	delivered := 0
	for _, conn := range h.Members(roomID) {
		if conn.Send(frame) {
			delivered++
		}
	}
	return delivered
}

// CloseAll closes every registered connection. Used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	conns := lo.Keys(h.conns)
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.Close()
	}
}
