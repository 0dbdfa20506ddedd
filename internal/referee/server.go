package referee

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/Garsondee/Memory-Duel/internal/identity"
	"github.com/Garsondee/Memory-Duel/internal/protocol"
)

// ConnectionConfig holds WebSocket tuning for player connections.
type ConnectionConfig struct {
	WriteTimeout   time.Duration
	PongWait       time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	SendBuffer     int
}

// DefaultConnectionConfig returns the settings used by cmd/referee.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:   10 * time.Second,
		PongWait:       60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 1024,
		SendBuffer:     64,
	}
}

// Options configures a Server.
type Options struct {
	// PublicURL prefixes every picture URL sent to clients.
	PublicURL string
	// ImageDir is served under /image/. Empty disables static files.
	ImageDir       string
	Back           string
	Faces          []string
	Cards          int
	AllowedOrigins []string
	Connection     ConnectionConfig
	Seed           int64
}

// Stats is a point-in-time view of the lobby.
type Stats struct {
	Waiting  int
	Rooms    int
	Finished int
}

// Server pairs players in arrival order and referees their matches.
type Server struct {
	opts     Options
	issuer   *identity.Issuer
	upgrader websocket.Upgrader

	rngMu sync.Mutex
	rng   *rand.Rand

	mu       sync.Mutex
	waiting  *connection
	rooms    map[*connection]*room
	finished int
}

// room is one match and the two connections playing it.
type room struct {
	mu     sync.Mutex
	match  *Match
	seats  [2]*connection
	closed bool
}

// connection is one player's WebSocket.
type connection struct {
	ID        string
	SessionID string
	conn      *websocket.Conn
	send      chan []byte
	server    *Server

	mu     sync.Mutex
	closed bool
}

// NewServer creates a referee. issuer may be nil, in which case the identity
// endpoints answer 503.
func NewServer(opts Options, issuer *identity.Issuer) (*Server, error) {
	if opts.Connection.SendBuffer <= 0 {
		opts.Connection = DefaultConnectionConfig()
	}
	if _, err := Deal(opts.Faces, opts.Cards, nil); err != nil {
		return nil, err
	}
	s := &Server{
		opts:   opts,
		issuer: issuer,
		rng:    rand.New(rand.NewSource(opts.Seed)), // #nosec G404 -- card shuffle, not a secret
		rooms:  make(map[*connection]*room),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originAllowed,
	}
	return s, nil
}

// Routes builds the chi router without CORS.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWS)
	r.Route("/identity", func(r chi.Router) {
		r.Post("/id", s.handleIdentityID)
		r.Post("/credentials", s.handleCredentials)
	})
	if s.opts.ImageDir != "" {
		r.Handle("/image/*", http.StripPrefix("/image/", http.FileServer(http.Dir(s.opts.ImageDir))))
	}
	return r
}

// Handler is Routes wrapped in CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(s.Routes())
}

// Stats reports the lobby state.
func (s *Server) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{Finished: s.finished}
	if s.waiting != nil {
		st.Waiting = 1
	}
	seen := make(map[*room]bool)
	for _, r := range s.rooms {
		seen[r] = true
	}
	st.Rooms = len(seen)
	return st
}

// Close drops every connection.
func (s *Server) Close() {
	s.mu.Lock()
	conns := make([]*connection, 0, len(s.rooms)+1)
	if s.waiting != nil {
		conns = append(conns, s.waiting)
		s.waiting = nil
	}
	for c := range s.rooms {
		conns = append(conns, c)
	}
	s.rooms = make(map[*connection]*room)
	s.mu.Unlock()

	for _, c := range conns {
		c.close()
	}
	log.Info().Int("connections", len(conns)).Msg("referee closed")
}

func (s *Server) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.opts.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func (s *Server) imageURL(name string) string {
	return strings.TrimRight(s.opts.PublicURL, "/") + "/image/" + name
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.Stats()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"waiting":  st.Waiting,
		"rooms":    st.Rooms,
		"finished": st.Finished,
	})
}

func (s *Server) handleIdentityID(w http.ResponseWriter, r *http.Request) {
	if s.issuer == nil {
		http.Error(w, "identity disabled", http.StatusServiceUnavailable)
		return
	}
	id, err := s.issuer.GetID(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to issue identity")
		http.Error(w, "identity unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, identity.IDResponse{IdentityID: id})
}

func (s *Server) handleCredentials(w http.ResponseWriter, r *http.Request) {
	if s.issuer == nil {
		http.Error(w, "identity disabled", http.StatusServiceUnavailable)
		return
	}
	var req identity.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	creds, err := s.issuer.GetCredentialsForIdentity(r.Context(), req.IdentityID)
	switch {
	case errors.Is(err, identity.ErrUnknownIdentity):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		log.Error().Err(err).Str("identity", req.IdentityID).Msg("failed to grant credentials")
		http.Error(w, "credentials unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, creds)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("playerSessionId")
	if sessionID == "" {
		http.Error(w, "playerSessionId is required", http.StatusBadRequest)
		return
	}
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return
	}

	c := &connection{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		conn:      ws,
		send:      make(chan []byte, s.opts.Connection.SendBuffer),
		server:    s,
	}
	log.Info().
		Str("connection_id", c.ID).
		Str("session_id", sessionID).
		Msg("player connected")

	go c.writePump()
	s.join(c)
	c.readPump()
}

// join seats c opposite the waiting player, or makes c the waiting player.
func (s *Server) join(c *connection) {
	s.mu.Lock()
	first := s.waiting
	if first == nil {
		s.waiting = c
		s.mu.Unlock()
		log.Debug().Str("connection_id", c.ID).Msg("waiting for opponent")
		return
	}
	s.waiting = nil

	s.rngMu.Lock()
	names, err := Deal(s.opts.Faces, s.opts.Cards, s.rng)
	s.rngMu.Unlock()
	if err != nil {
		s.mu.Unlock()
		log.Error().Err(err).Msg("failed to deal")
		first.close()
		c.close()
		return
	}
	deck := make([]string, len(names))
	for i, n := range names {
		deck[i] = s.imageURL(n)
	}
	rm := &room{
		match: NewMatch(uuid.New().String(), deck),
		seats: [2]*connection{first, c},
	}
	s.rooms[first] = rm
	s.rooms[c] = rm
	s.mu.Unlock()

	log.Info().
		Str("match_id", rm.match.ID).
		Str("seat0", first.SessionID).
		Str("seat1", c.SessionID).
		Msg("match started")

	back := s.imageURL(s.opts.Back)
	for seat, sc := range rm.seats {
		if msg, err := json.Marshal(rm.match.Start(seat, back)); err == nil {
			sc.enqueue(msg)
		}
	}
}

func (s *Server) roomOf(c *connection) *room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[c]
}

// pick applies one selection and fans the outcome out to both seats.
func (s *Server) pick(c *connection, raw []byte) {
	sel, err := protocol.DecodeSelection(raw)
	if err != nil {
		log.Warn().Err(err).Str("connection_id", c.ID).Msg("ignoring message")
		return
	}
	rm := s.roomOf(c)
	if rm == nil {
		log.Warn().Str("connection_id", c.ID).Int("card", sel.Card).Msg("pick before pairing")
		return
	}

	rm.mu.Lock()
	if rm.closed {
		rm.mu.Unlock()
		return
	}
	seat := 0
	if rm.seats[1] == c {
		seat = 1
	}
	out, err := rm.match.Pick(seat, sel.Card)
	over := rm.match.Over()
	seats := rm.seats
	rm.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).
			Str("match_id", rm.match.ID).
			Int("seat", seat).
			Int("card", sel.Card).
			Msg("pick rejected")
		return
	}
	log.Debug().
		Str("match_id", rm.match.ID).
		Int("seat", seat).
		Int("card", out.Card).
		Str("status", string(out.Status)).
		Msg("pick")

	for i, sc := range seats {
		msg, err := json.Marshal(out.For(i))
		if err != nil {
			continue
		}
		sc.enqueue(msg)
	}

	if over {
		s.mu.Lock()
		s.finished++
		s.mu.Unlock()
		log.Info().
			Str("match_id", rm.match.ID).
			Int("score0", out.Scores[0]).
			Int("score1", out.Scores[1]).
			Msg("match finished")
	}
}

// leave removes c from the lobby. A seated player leaving ends the match
// and drops the opponent.
func (s *Server) leave(c *connection) {
	s.mu.Lock()
	if s.waiting == c {
		s.waiting = nil
	}
	rm := s.rooms[c]
	if rm != nil {
		for _, sc := range rm.seats {
			delete(s.rooms, sc)
		}
	}
	s.mu.Unlock()

	if rm == nil {
		c.close()
		return
	}
	rm.mu.Lock()
	rm.closed = true
	seats := rm.seats
	rm.mu.Unlock()

	log.Info().
		Str("match_id", rm.match.ID).
		Str("connection_id", c.ID).
		Msg("player left, closing match")
	for _, sc := range seats {
		sc.close()
	}
}

// enqueue hands msg to the write pump. A full queue drops the connection.
func (c *connection) enqueue(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		log.Warn().Str("connection_id", c.ID).Msg("send buffer full, closing connection")
		c.closed = true
		close(c.send)
		return false
	}
}

func (c *connection) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *connection) writePump() {
	cfg := c.server.opts.Connection
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to write message")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *connection) readPump() {
	cfg := c.server.opts.Connection
	defer func() {
		c.server.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("websocket error")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
		c.server.pick(c, message)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}
