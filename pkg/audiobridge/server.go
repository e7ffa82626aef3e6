// Package audiobridge implements the framed TCP audio bridge: a single
// bidirectional PCM stream per connected client, gated by a handshake, fed
// through a jitter-absorbing ring buffer, and monitored by heartbeat and
// latency probes, per spec.md §4.6-4.7.
package audiobridge

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/audioproto"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/logging"
)

// Config tunes the session timing and buffer sizing. Zero fields are
// replaced with defaults in New.
type Config struct {
	HandshakeTimeout  time.Duration
	HeartbeatInterval time.Duration
	HeartbeatMisses   int
	BufferMs          int
	TargetLatencyMs   int
}

func (c Config) FrameBytes() int { return audioproto.FrameBytes }

func (c Config) bytesPerMs() int {
	return audioproto.DefaultAudioFormat.SampleRateHz * 2 / 1000
}

func (c Config) ringCapacityBytes() int { return c.bytesPerMs() * c.BufferMs }
func (c Config) targetFillBytes() int   { return c.bytesPerMs() * c.TargetLatencyMs }

func (c Config) withDefaults() Config {
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = 5 * time.Second
	}
	if c.HeartbeatMisses == 0 {
		c.HeartbeatMisses = 3
	}
	if c.BufferMs == 0 {
		c.BufferMs = 500
	}
	if c.TargetLatencyMs == 0 {
		c.TargetLatencyMs = 100
	}
	return c
}

// LineFactory builds the capture and playback lines a new session uses.
// The default factory returns software-defined lines (pkg/audiobridge's
// own no-cgo stand-in); a platform backend supplies its own factory.
type LineFactory func() Line

// AudioServer accepts exactly one streaming client at a time on its TCP
// port, rejecting further connections with CONNECT_REJECT(BUSY), per
// spec.md §4.7's INIT state.
type AudioServer struct {
	cfg Config
	log *logging.Logger

	newCaptureLine  LineFactory
	newPlaybackLine LineFactory

	capturePool *framePool

	listener net.Listener

	mu      sync.Mutex
	active  *session
	wg      sync.WaitGroup

	statsMu   sync.Mutex
	listeners []StatsListener
}

// New constructs an AudioServer. captureFactory/playbackFactory may be nil
// to use SoftwareLine.
func New(cfg Config, captureFactory, playbackFactory LineFactory, log *logging.Logger) *AudioServer {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logging.GetGlobalLogger()
	}
	if captureFactory == nil {
		captureFactory = func() Line { return NewSoftwareLine(audioproto.DefaultAudioFormat.SampleRateHz, cfg.FrameBytes()) }
	}
	if playbackFactory == nil {
		playbackFactory = func() Line { return NewSoftwareLine(audioproto.DefaultAudioFormat.SampleRateHz, cfg.FrameBytes()) }
	}
	return &AudioServer{
		cfg:             cfg,
		log:             log,
		newCaptureLine:  captureFactory,
		newPlaybackLine: playbackFactory,
		capturePool:     newFramePool(cfg.FrameBytes(), log),
	}
}

// Start begins listening on addr and accepting clients in the background.
func (a *AudioServer) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	a.listener = ln
	a.log.Infof("audiobridge", "listening on %s", addr)

	a.wg.Add(1)
	go a.acceptLoop()
	return nil
}

func (a *AudioServer) acceptLoop() {
	defer a.wg.Done()
	for {
		conn, err := a.listener.Accept()
		if err != nil {
			return
		}
		a.handleAccept(conn)
	}
}

func (a *AudioServer) handleAccept(conn net.Conn) {
	a.mu.Lock()
	if a.active != nil {
		a.mu.Unlock()
		sess := &session{conn: conn, server: a}
		sess.reject(audioproto.RejectBusy)
		return
	}
	sess := newSession(conn, a)
	a.active = sess
	a.mu.Unlock()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		sess.run()
	}()
}

// IsSessionActive reports whether an audio client is currently connected.
func (a *AudioServer) IsSessionActive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active != nil
}

func (a *AudioServer) sessionEnded(s *session) {
	a.mu.Lock()
	if a.active == s {
		a.active = nil
	}
	a.mu.Unlock()
}

// SubscribeStats registers a StatsListener that receives one Stats
// snapshot per second per active session.
func (a *AudioServer) SubscribeStats(l StatsListener) {
	a.statsMu.Lock()
	defer a.statsMu.Unlock()
	a.listeners = append(a.listeners, l)
}

func (a *AudioServer) publishStats(s Stats) {
	a.statsMu.Lock()
	listeners := a.listeners
	a.statsMu.Unlock()
	for _, l := range listeners {
		l.DeliverStats(s)
	}
}

// Stop closes the listener first to unblock Accept, then drops the active
// session if any and waits up to 5 seconds for every task to exit,
// mirroring rigctld.Server.Stop's shutdown ordering.
func (a *AudioServer) Stop(ctx context.Context) error {
	if a.listener != nil {
		a.listener.Close()
	}

	a.mu.Lock()
	active := a.active
	a.mu.Unlock()
	if active != nil {
		active.close()
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
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
