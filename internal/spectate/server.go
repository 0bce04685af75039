// Package spectate exposes a running session over HTTP: the latest snapshot
// as JSON, the stored run history, and a websocket stream of snapshots.
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/verte-zerg/inkblade/internal/model"
	"github.com/verte-zerg/inkblade/internal/session"
)

const (
	clientBuffer = 16
	writeTimeout = 5 * time.Second
)

// RunLister is the slice of the store the server reads history from.
type RunLister interface {
	ListRuns(ctx context.Context, filter model.HistoryFilter) ([]model.RunRecord, error)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	id   uint64
	conn *websocket.Conn
	out  chan session.Snapshot
}

// Server fans session snapshots out to HTTP and websocket clients.
type Server struct {
	runs   RunLister
	router *mux.Router

	mu      sync.Mutex
	latest  *session.Snapshot
	clients map[uint64]*client
	nextID  uint64

	httpSrv *http.Server
}

// New builds a server. runs may be nil, in which case /api/runs returns 404.
func New(runs RunLister) *Server {
	s := &Server{
		runs:    runs,
		clients: make(map[uint64]*client),
	}
	r := mux.NewRouter()
	r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/api/runs", s.handleRuns).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS)
	s.router = r
	return s
}

// Handler returns the routed handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Observe records the snapshot and queues it for every client. It never
// blocks: a client whose buffer is full is disconnected.
func (s *Server) Observe(snap session.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &snap
	for id, c := range s.clients {
		select {
		case c.out <- snap:
		default:
			log.Printf("spectate: dropping slow client %d", id)
			s.dropLocked(id)
		}
	}
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Start listens on addr and serves in the background. The bound address is
// returned so ":0" can be used.
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.httpSrv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("spectate: serve failed: %v", err)
		}
	}()
	log.Printf("spectate: listening on %s", ln.Addr())
	return ln.Addr().String(), nil
}

// Shutdown stops accepting requests and closes every websocket.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for id := range s.clients {
		s.dropLocked(id)
	}
	s.mu.Unlock()
	if s.httpSrv == nil {
		return nil
	}
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down spectator server: %w", err)
	}
	return nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	latest := s.latest
	s.mu.Unlock()
	if latest == nil {
		http.Error(w, "no session yet", http.StatusNotFound)
		return
	}
	writeJSON(w, latest)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	runs, err := s.runs.ListRuns(r.Context(), filter)
	if err != nil {
		log.Printf("spectate: list runs: %v", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []model.RunRecord{}
	}
	writeJSON(w, runs)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("spectate: upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	s.nextID++
	c := &client{id: s.nextID, conn: conn, out: make(chan session.Snapshot, clientBuffer)}
	s.clients[c.id] = c
	if s.latest != nil {
		c.out <- *s.latest
	}
	s.mu.Unlock()
	log.Printf("spectate: connect id=%d from=%s", c.id, r.RemoteAddr)

	go s.writeLoop(c)
	go s.readLoop(c)
}

// writeLoop drains the client's queue until it is closed by dropLocked.
func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for snap := range c.out {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(snap); err != nil {
			log.Printf("spectate: write id=%d: %v", c.id, err)
			s.drop(c.id)
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readLoop only watches for the peer going away; spectators never send.
func (s *Server) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			log.Printf("spectate: closed id=%d", c.id)
			s.drop(c.id)
			return
		}
	}
}

func (s *Server) drop(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(id)
}

func (s *Server) dropLocked(id uint64) {
	c, ok := s.clients[id]
	if !ok {
		return
	}
	delete(s.clients, id)
	close(c.out)
}

func parseFilter(r *http.Request) (model.HistoryFilter, error) {
	var filter model.HistoryFilter
	q := r.URL.Query()
	if v := q.Get("difficulty"); v != "" {
		d, err := model.ParseDifficulty(v)
		if err != nil {
			return filter, err
		}
		filter.Difficulty = &d
	}
	if v := q.Get("last"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("invalid last %q", v)
		}
		filter.Last = n
	}
	return filter, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("spectate: encode response: %v", err)
	}
}
