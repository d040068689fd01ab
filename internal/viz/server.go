// Package viz streams sim frames to browsers. The sim goroutine publishes
// frames; HTTP handlers only ever see the encoded bytes.
package viz

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/Garsondee/Hide-Sense/internal/game"
)

// Command is a control message sent by a viewer.
type Command struct {
	Cmd string `json:"cmd"` // "restart" or "pause"
}

// sendBuffer is how many frames a slow viewer may fall behind before it is
// dropped.
const sendBuffer = 8

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server holds the latest frame and the connected viewers.
type Server struct {
	router *mux.Router

	mu      sync.Mutex
	latest  []byte
	clients map[*client]struct{}

	commands chan Command
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewServer builds the router:
//
//	GET /healthz  liveness
//	GET /frame    latest frame as JSON
//	GET /ws       frame stream; viewers may send {"cmd":"restart"|"pause"}
func NewServer() *Server {
	s := &Server{
		router:   mux.NewRouter(),
		clients:  make(map[*client]struct{}),
		commands: make(chan Command, 16),
	}
	s.router.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	s.router.HandleFunc("/frame", s.frame).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.websocket).Methods(http.MethodGet)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Commands delivers viewer commands to the sim goroutine.
func (s *Server) Commands() <-chan Command { return s.commands }

// Viewers returns how many websocket clients are connected.
func (s *Server) Viewers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Publish encodes f, keeps it as the latest frame and fans it out. Viewers
// whose buffers are full are disconnected.
func (s *Server) Publish(f game.Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "viz: encode frame")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = data
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			log.Printf("viz: dropping slow viewer %s", c.conn.RemoteAddr())
			s.removeLocked(c)
		}
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) frame(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	data := s.latest
	s.mu.Unlock()
	if data == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) websocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("viz: upgrade: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	s.mu.Lock()
	if s.latest != nil {
		c.send <- s.latest
	}
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop forwards commands until the viewer goes away. It must keep
// reading so close frames are noticed.
func (s *Server) readLoop(c *client) {
	defer func() {
		s.mu.Lock()
		s.removeLocked(c)
		s.mu.Unlock()
	}()
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			log.Printf("viz: bad command %q: %v", msg, err)
			continue
		}
		select {
		case s.commands <- cmd:
		default:
			log.Printf("viz: command queue full, dropping %q", cmd.Cmd)
		}
	}
}

func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// removeLocked forgets c and ends its write loop. s.mu must be held.
func (s *Server) removeLocked(c *client) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
}
