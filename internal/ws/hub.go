package ws

import (
	crand "crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"
)

// Msg is the envelope pushed to spectators.
type Msg struct {
	T string `json:"t"`           // type
	M any    `json:"m,omitempty"` // payload
}

type client struct {
	id     string
	gameID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans solo-game state updates out to spectators. Each client watches a
// single game, selected by the `game` query parameter.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: map[*client]struct{}{}}
}

// Broadcast pushes a payload to every spectator of the given game. Slow
// clients are skipped rather than blocking the caller.
func (h *Hub) Broadcast(gameID string, msgType string, payload any) {
	b, err := json.Marshal(Msg{T: msgType, M: payload})
	if err != nil {
		return
	}
	h.mu.RLock()
	for c := range h.clients {
		if c.gameID != gameID {
			continue
		}
		select {
		case c.send <- b:
		default:
		}
	}
	h.mu.RUnlock()
}

// ServeWS upgrades the request and pumps updates until the client leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		http.Error(w, "missing game id", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}

	c := &client{id: randID(), gameID: gameID, conn: conn, send: make(chan []byte, 64)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	log.Printf("spectator %s watching game %s", c.id, gameID)

	// writer
	go func() {
		ping := time.NewTicker(15 * time.Second)
		defer func() { ping.Stop(); _ = conn.Close(websocket.StatusNormalClosure, "bye") }()
		for {
			select {
			case msg, ok := <-c.send:
				if !ok {
					return
				}
				_ = conn.Write(r.Context(), websocket.MessageText, msg)
			case <-ping.C:
				_ = conn.Ping(r.Context())
			}
		}
	}()

	// reader; spectators send nothing meaningful, but reading drains
	// control frames and detects disconnects
	for {
		if _, _, err := conn.Read(r.Context()); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()
	log.Printf("spectator %s disconnected", c.id)
}

func randID() string {
	var b [8]byte
	_, _ = crand.Read(b[:])
	return hex.EncodeToString(b[:])
}
