package websocket

import (
	"sync"

	"gallery-auction/pkg/logger"
)

// ConnectionManager tracks every client watching the gallery feed.
type ConnectionManager struct {
	connections map[string]*GalleryConnection
	mutex       sync.RWMutex
	log         logger.Logger
}

func NewConnectionManager(log logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*GalleryConnection),
		log:         log,
	}
}

func (cm *ConnectionManager) Register(conn *GalleryConnection) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cm.connections[conn.ID()] = conn
	cm.log.Info("Gallery connection registered", "conn_id", conn.ID(), "total", len(cm.connections))
}

func (cm *ConnectionManager) Unregister(connID string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if conn, exists := cm.connections[connID]; exists {
		conn.Close()
		delete(cm.connections, connID)
		cm.log.Info("Gallery connection unregistered", "conn_id", connID, "total", len(cm.connections))
	}
}

// Broadcast sends a message to every connected client. A failed send drops
// only that connection; the rest of the fan-out continues.
func (cm *ConnectionManager) Broadcast(message interface{}) error {
	cm.mutex.RLock()
	conns := make([]*GalleryConnection, 0, len(cm.connections))
	for _, conn := range cm.connections {
		conns = append(conns, conn)
	}
	cm.mutex.RUnlock()

	for _, conn := range conns {
		if err := conn.Send(message); err != nil {
			cm.log.Warn("Dropping gallery connection after failed send", "conn_id", conn.ID(), "error", err)
			cm.Unregister(conn.ID())
		}
	}
	return nil
}

// CloseAll tears down every connection, used during shutdown.
func (cm *ConnectionManager) CloseAll() {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	for id, conn := range cm.connections {
		conn.Close()
		delete(cm.connections, id)
	}
}
