package websocket

import (
	"net/http"

	"gallery-auction/pkg/logger"
	"gallery-auction/pkg/utils"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

type GalleryFeedHandler struct {
	connManager *ConnectionManager
	log         logger.Logger
}

func NewGalleryFeedHandler(connManager *ConnectionManager, log logger.Logger) *GalleryFeedHandler {
	return &GalleryFeedHandler{
		connManager: connManager,
		log:         log,
	}
}

// Router returns the mux router serving the websocket endpoints.
func (h *GalleryFeedHandler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws/gallery", h.HandleConnection)
	return r
}

func (h *GalleryFeedHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	galleryConn := NewGalleryConnection(conn, utils.GenerateID("conn"), h.log)
	h.connManager.Register(galleryConn)

	go h.readLoop(galleryConn)
}

// readLoop drains client frames until the peer goes away. The feed is
// one-way; inbound payloads are discarded.
func (h *GalleryFeedHandler) readLoop(conn *GalleryConnection) {
	defer h.connManager.Unregister(conn.ID())

	for {
		if _, _, err := conn.conn.ReadMessage(); err != nil {
			return
		}
	}
}
