package websocket

import (
	"sync"

	"gallery-auction/pkg/logger"

	"github.com/gorilla/websocket"
)

// GalleryConnection wraps a websocket connection with a write lock;
// gorilla connections do not allow concurrent writers.
type GalleryConnection struct {
	conn      *websocket.Conn
	id        string
	writeLock sync.Mutex
	closed    bool
	log       logger.Logger
}

func NewGalleryConnection(conn *websocket.Conn, id string, log logger.Logger) *GalleryConnection {
	return &GalleryConnection{
		conn: conn,
		id:   id,
		log:  log,
	}
}

// Send writes a JSON message. Sending on a connection that already closed
// is a no-op; a broadcast completing after teardown must not crash.
func (c *GalleryConnection) Send(message interface{}) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	if c.closed {
		return nil
	}
	return c.conn.WriteJSON(message)
}

func (c *GalleryConnection) Close() error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

func (c *GalleryConnection) ID() string {
	return c.id
}
