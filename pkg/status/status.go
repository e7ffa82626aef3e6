// Package status exposes a small optional read-only HTTP/WebSocket surface
// so a browser or monitoring tool can observe rig state without competing
// for the rigctl port. It sits entirely off the CAT/rigctl/audio critical
// path: disabling it changes nothing else.
package status

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/logging"
)

// Snapshot is the JSON body served by GET /status and pushed over /ws.
type Snapshot struct {
	HeadType           string  `json:"head_type"`
	ActiveVFO          string  `json:"active_vfo"`
	FrequencyHz        uint64  `json:"frequency_hz"`
	Mode                string  `json:"mode"`
	PTT                 bool    `json:"ptt"`
	RigctlClientCount   int     `json:"rigctl_client_count"`
	AudioSessionActive bool    `json:"audio_session_active"`
	UptimeSeconds       float64 `json:"uptime_seconds"`
}

// SnapshotFunc produces a fresh Snapshot on demand. The caller supplies one
// that reads whatever state it already tracks (Server does not hold a
// rig_lock itself).
type SnapshotFunc func() Snapshot

// Server serves the status JSON endpoint and fans a Snapshot out to every
// connected WebSocket client whenever PushUpdate is called.
type Server struct {
	snapshot SnapshotFunc
	log      *logging.Logger

	router     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
	upgrader   websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// New builds a Server. snapshot must not be nil.
func New(snapshot SnapshotFunc, log *logging.Logger) *Server {
	if log == nil {
		log = logging.GetGlobalLogger()
	}
	s := &Server{
		snapshot: snapshot,
		log:      log,
		conns:    make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/status", s.handleStatus)
	router.GET("/ws", s.handleWS)
	s.router = router

	return s
}

// Start begins serving HTTP on addr in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.httpServer = &http.Server{Addr: addr, Handler: s.router}
	s.log.Infof("status", "listening on %s", ln.Addr())
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Errorf("status", "server error: %v", err)
		}
	}()
	return nil
}

// Stop shuts the HTTP server down gracefully, closing any open WebSocket
// connections.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.snapshot())
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warnf("status", "websocket upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	_ = conn.WriteJSON(s.snapshot())

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// PushUpdate broadcasts a fresh Snapshot to every connected WebSocket
// client. Wired as an aibus.Subscriber so a push fires on every AI-mode
// radio update. Clients are written one after another, so a slow client
// delays the ones after it; a write error is logged.
func (s *Server) PushUpdate() {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	snap := s.snapshot()
	for _, c := range conns {
		if err := c.WriteJSON(snap); err != nil {
			s.log.Debugf("status", "dropping websocket client after write error: %v", err)
		}
	}
}

// DeliverAI implements aibus.Subscriber: every AI push triggers a status
// broadcast instead of carrying the raw CAT frame to HTTP clients.
func (s *Server) DeliverAI(raw string) error {
	s.PushUpdate()
	return nil
}

