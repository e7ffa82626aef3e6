package audiobridge

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/audioproto"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/logging"
)

// sessionState is an AudioSession's place in the state machine of
// spec.md §4.7.
type sessionState int32

const (
	stateInit sessionState = iota
	stateAwaitHandshake
	stateStreaming
	stateClosing
)

// Stats is the once-a-second snapshot an AudioSession publishes, per
// spec.md's AudioStreamStats.
type Stats struct {
	BytesIn          int64
	BytesOut         int64
	BufferFillPct    float64
	BufferLevelMs    float64
	LatencyMs        int64
	UnderrunCount    int64
	OverrunCount     int64
	CRCErrorCount    int64
	ConnectionAgeMs  int64
}

// StatsListener receives one Stats snapshot per second.
type StatsListener interface {
	DeliverStats(Stats)
}

type session struct {
	conn   net.Conn
	server *AudioServer

	writeMu sync.Mutex

	state atomic.Int32

	txRing *RingBuffer // fed by AUDIO_TX frames from the client, drained by playbackLine

	captureLine  Line
	playbackLine Line

	bytesIn       atomic.Int64
	bytesOut      atomic.Int64
	crcErrors     atomic.Int64
	latencyMs     atomic.Int64
	pendingProbe  atomic.Int64 // never written: the session sends no LATENCY_PROBE of its own

	startedAt time.Time
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(conn net.Conn, server *AudioServer) *session {
	return &session{
		conn:         conn,
		server:       server,
		txRing:       NewRingBuffer(server.cfg.ringCapacityBytes(), server.cfg.targetFillBytes()),
		captureLine:  server.newCaptureLine(),
		playbackLine: server.newPlaybackLine(),
		done:         make(chan struct{}),
	}
}

func (s *session) run() {
	defer s.close()

	s.state.Store(int32(stateAwaitHandshake))
	if !s.handshake() {
		return
	}

	s.state.Store(int32(stateStreaming))
	s.startedAt = time.Now()

	s.captureLine.Start()
	s.playbackLine.Start()
	defer s.captureLine.Stop()
	defer s.playbackLine.Stop()

	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); s.captureTask() }()
	go func() { defer wg.Done(); s.receiveTask() }()
	go func() { defer wg.Done(); s.playbackTask() }()
	go func() { defer wg.Done(); s.statsTask() }()
	wg.Wait()
}

// handshake waits up to the configured timeout for CONNECT_REQUEST, then
// replies AUDIO_CONFIG + CONNECT_ACCEPT. Any other frame, decode error, or
// timeout drops the connection.
func (s *session) handshake() bool {
	s.conn.SetReadDeadline(time.Now().Add(s.server.cfg.HandshakeTimeout))
	defer s.conn.SetReadDeadline(time.Time{})

	frame, err := audioproto.ReadFrame(s.conn)
	if err != nil {
		return false
	}
	msg, err := audioproto.DecodeControl(frame)
	if err != nil || msg.SubType != audioproto.ConnectRequest {
		return false
	}

	format := audioproto.DefaultAudioFormat
	if err := s.writeFrame(audioproto.EncodeControl(audioproto.ControlMessage{
		SubType: audioproto.AudioConfig,
		Format:  &format,
	})); err != nil {
		return false
	}
	if err := s.writeFrame(audioproto.EncodeControl(audioproto.ControlMessage{
		SubType: audioproto.ConnectAccept,
	})); err != nil {
		return false
	}
	return true
}

func (s *session) reject(reason audioproto.RejectReason) {
	_ = s.writeFrame(audioproto.EncodeControl(audioproto.ControlMessage{
		SubType: audioproto.ConnectReject,
		Reason:  reason,
	}))
	s.conn.Close()
}

func (s *session) writeFrame(f audioproto.Frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err := s.conn.Write(f.Encode())
	return err
}

// captureTask reads one frame from the capture line and forwards it as
// AUDIO_RX, independent of anything the receive task is doing.
func (s *session) captureTask() {
	pool := s.server.capturePool
	frameDur := time.Duration(audioproto.DefaultAudioFormat.FrameMs) * time.Millisecond
	ticker := time.NewTicker(frameDur)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		fb := pool.Get()
		n, err := s.captureLine.ReadFrame(fb.Data)
		if err != nil {
			fb.Release()
			s.transitionClosing()
			return
		}
		if err := s.writeFrame(audioproto.Frame{Type: audioproto.FrameAudioRX, Payload: fb.Data[:n]}); err != nil {
			fb.Release()
			s.transitionClosing()
			return
		}
		s.bytesOut.Add(int64(n))
		fb.Release()
	}
}

// receiveTask reads TCP frames with a short poll timeout and dispatches by
// type, per spec.md §4.7.
func (s *session) receiveTask() {
	heartbeatWindow := s.server.cfg.HeartbeatInterval * time.Duration(s.server.cfg.HeartbeatMisses)
	lastFrame := time.Now()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		s.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		frame, err := audioproto.ReadFrame(s.conn)
		if err != nil {
			if errors.Is(err, audioproto.ErrCRCMismatch) {
				s.crcErrors.Add(1)
				continue
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				if time.Since(lastFrame) > heartbeatWindow {
					s.transitionClosing()
					return
				}
				continue
			}
			s.transitionClosing()
			return
		}
		lastFrame = time.Now()

		switch frame.Type {
		case audioproto.FrameAudioTX:
			if len(frame.Payload) != audioproto.FrameBytes {
				s.transitionClosing()
				return
			}
			s.txRing.Write(frame.Payload)
			s.bytesIn.Add(int64(len(frame.Payload)))
		case audioproto.FrameControl:
			s.handleControl(frame)
		case audioproto.FrameHeartbeat:
			_ = s.writeFrame(audioproto.HeartbeatAck())
		case audioproto.FrameHeartbeatAck:
			// liveness only, no action
		}
	}
}

func (s *session) handleControl(frame audioproto.Frame) {
	msg, err := audioproto.DecodeControl(frame)
	if err != nil {
		return
	}
	switch msg.SubType {
	case audioproto.LatencyProbe:
		_ = s.writeFrame(audioproto.EncodeControl(audioproto.ControlMessage{
			SubType:           audioproto.LatencyResponse,
			TimestampUnixNano: msg.TimestampUnixNano,
		}))
	case audioproto.LatencyResponse:
		sentAt := time.Unix(0, msg.TimestampUnixNano)
		s.latencyMs.Store(time.Since(sentAt).Milliseconds() / 2)
	case audioproto.Disconnect:
		s.transitionClosing()
	}
}

// playbackTask waits for the ring buffer to reach its target fill, then
// drains it at frame cadence, inserting silence on underrun.
func (s *session) playbackTask() {
	frameBytes := s.server.cfg.FrameBytes()
	frameDur := time.Duration(audioproto.DefaultAudioFormat.FrameMs) * time.Millisecond
	silence := make([]byte, frameBytes)

	for !s.txRing.HasReachedTarget() {
		select {
		case <-s.done:
			return
		case <-time.After(5 * time.Millisecond):
		}
	}

	ticker := time.NewTicker(frameDur)
	defer ticker.Stop()

	buf := make([]byte, frameBytes)
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			n := s.txRing.Read(buf, frameBytes, frameDur)
			if n == 0 {
				_ = s.playbackLine.WriteFrame(silence)
				continue
			}
			_ = s.playbackLine.WriteFrame(buf[:n])
		}
	}
}

func (s *session) statsTask() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			under, over := s.txRing.Counters()
			capacity := s.server.cfg.ringCapacityBytes()
			fillPct := 0.0
			if capacity > 0 {
				fillPct = float64(s.txRing.Available()) / float64(capacity) * 100
			}
			bytesPerMs := float64(audioproto.DefaultAudioFormat.SampleRateHz*2) / 1000
			levelMs := 0.0
			if bytesPerMs > 0 {
				levelMs = float64(s.txRing.Available()) / bytesPerMs
			}
			stats := Stats{
				BytesIn:         s.bytesIn.Load(),
				BytesOut:        s.bytesOut.Load(),
				BufferFillPct:   fillPct,
				BufferLevelMs:   levelMs,
				LatencyMs:       s.latencyMs.Load(),
				UnderrunCount:   under,
				OverrunCount:    over,
				CRCErrorCount:   s.crcErrors.Load(),
				ConnectionAgeMs: time.Since(s.startedAt).Milliseconds(),
			}
			s.server.publishStats(stats)
		}
	}
}

func (s *session) transitionClosing() {
	s.state.Store(int32(stateClosing))
	s.close()
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
		s.txRing.Reset()
		s.server.sessionEnded(s)
	})
}

// logf reports diagnostics to the server's logger with the "audiobridge"
// component tag.
func (s *session) logf(log *logging.Logger, format string, args ...interface{}) {
	log.Debugf("audiobridge", format, args...)
}
