// Package rigctld implements the rigctld-compatible TCP line server that
// fronts HamlibTranslator for Hamlib clients such as WSJT-X.
package rigctld

import (
	"bufio"
	"context"
	"net"
	"sync"
	"time"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/aibus"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/hamlib"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/logging"
)

// Server accepts TCP connections and runs one session per client. All
// sessions share a single rig_lock so a reply reflects a consistent radio
// state even with multiple clients connected, per spec.md §4.4.
type Server struct {
	translator *hamlib.Translator
	bus        *aibus.Bus
	log        *logging.Logger

	rigLock sync.Mutex

	listener net.Listener

	mu       sync.Mutex
	sessions map[*session]struct{}
	wg       sync.WaitGroup
}

// New constructs a Server. translator must not be used concurrently by
// anything else; Server is the sole caller of Dispatch.
func New(translator *hamlib.Translator, bus *aibus.Bus, log *logging.Logger) *Server {
	if log == nil {
		log = logging.GetGlobalLogger()
	}
	return &Server{
		translator: translator,
		bus:        bus,
		log:        log,
		sessions:   make(map[*session]struct{}),
	}
}

// Start begins listening on addr and accepting clients in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.log.Infof("rigctld", "listening on %s", addr)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		sess := newSession(conn, s)
		s.mu.Lock()
		s.sessions[sess] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			sess.run()
			s.mu.Lock()
			delete(s.sessions, sess)
			s.mu.Unlock()
		}()
	}
}

// ClientCount returns the number of currently connected rigctl clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Stop closes the listener first to unblock Accept, then closes every
// in-flight session and waits up to 5 seconds for them to exit.
func (s *Server) Stop(ctx context.Context) error {
	if s.listener != nil {
		s.listener.Close()
	}

	s.mu.Lock()
	for sess := range s.sessions {
		sess.close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	select {
	case <-done:
		return nil
	case <-waitCtx.Done():
		return waitCtx.Err()
	}
}

// session is one connected rigctl client, registered with the AiBroadcaster
// for the duration of the connection.
type session struct {
	conn   net.Conn
	server *Server
	writeMu sync.Mutex

	unsubscribe func()
}

func newSession(conn net.Conn, server *Server) *session {
	return &session{conn: conn, server: server}
}

func (s *session) run() {
	s.unsubscribe = s.server.bus.Subscribe(s)
	defer s.unsubscribe()
	defer s.conn.Close()

	s.server.log.Debugf("rigctld", "client connected: %s", s.conn.RemoteAddr())
	defer s.server.log.Debugf("rigctld", "client disconnected: %s", s.conn.RemoteAddr())

	scanner := bufio.NewScanner(s.conn)
	for scanner.Scan() {
		line := scanner.Text()

		s.server.rigLock.Lock()
		reply := s.server.translator.Dispatch(line)
		s.server.rigLock.Unlock()

		if reply == "" {
			return
		}
		if err := s.write(reply); err != nil {
			return
		}
	}
}

func (s *session) write(text string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err := s.conn.Write([]byte(text))
	return err
}

// DeliverAI implements aibus.Subscriber: it writes an AI push directly to
// this client's socket, independent of the request/reply cycle. A failed
// write closes this session; other subscribers are unaffected.
func (s *session) DeliverAI(raw string) error {
	if err := s.write(raw + "\n"); err != nil {
		s.close()
		return err
	}
	return nil
}

func (s *session) close() {
	s.conn.Close()
}
