// Package catlink implements the serial CAT transport to the radio: framed
// ASCII command/response exchange plus the background reader that
// demultiplexes solicited replies from unsolicited AI pushes.
package catlink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/logging"
)

// Sentinel errors surfaced by SendCommand, per the error taxonomy in
// spec.md §7.
var (
	ErrTimeout    = errors.New("catlink: response timeout")
	ErrRejected   = errors.New("catlink: radio rejected command")
	ErrLinkClosed = errors.New("catlink: link closed")
)

// Frame is a single decoded CAT frame: a two-character command code and its
// payload, with the terminating ';' implied.
type Frame struct {
	Code    string
	Payload string
}

// Raw reconstructs the wire form of the frame, without the trailing ';'.
func (f Frame) Raw() string {
	return f.Code + f.Payload
}

// AIHandler is invoked for every unsolicited frame received while no
// request is in flight.
type AIHandler func(Frame)

// Link is a single shared serial connection to the radio. Exactly one
// command/response round trip is ever in flight; the reader goroutine
// attributes incoming frames to that pending request or, failing a match,
// to the AI subscriber set.
type Link struct {
	conn io.ReadWriteCloser
	log  *logging.Logger

	responseTimeout time.Duration

	// writeMu serializes send_command callers so at most one request is
	// in flight on the wire at a time, per spec.md §4.1's concurrency
	// contract.
	writeMu sync.Mutex

	// pending is the single-slot rendezvous between the reader goroutine
	// and the in-flight SendCommand call. Guarded by pendingMu.
	pendingMu   sync.Mutex
	pendingCode string
	pendingCh   chan Frame

	aiMu        sync.Mutex
	aiListeners []AIHandler

	closeMu sync.Mutex
	closed  bool
	closeCh chan struct{}

	autoInfo bool
}

// Open opens the serial device and starts the background reader. device is
// an OS device path (e.g. "/dev/ttyUSB0"); baud is typically 38400 per
// spec.md §6.2, though 4800/9600/19200/57600/115200 are also accepted by
// the radio.
func Open(device string, baud int, responseTimeout time.Duration, log *logging.Logger) (*Link, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("catlink: open %s: %w", device, err)
	}
	return newLink(port, responseTimeout, log), nil
}

// NewForTest wraps an arbitrary io.ReadWriteCloser as a Link, bypassing
// serial.Open. Intended for other packages' tests to drive a Link against
// an in-memory fake radio.
func NewForTest(conn io.ReadWriteCloser, responseTimeout time.Duration) *Link {
	return newLink(conn, responseTimeout, nil)
}

// newLink wraps any io.ReadWriteCloser as a Link. Tests reach it through
// NewForTest with an in-memory fake port instead of a real serial device.
func newLink(conn io.ReadWriteCloser, responseTimeout time.Duration, log *logging.Logger) *Link {
	if log == nil {
		log = logging.GetGlobalLogger()
	}
	l := &Link{
		conn:            conn,
		log:             log,
		responseTimeout: responseTimeout,
		closeCh:         make(chan struct{}),
	}
	go l.readLoop()
	return l
}

// SendCommand writes code+payload+';' and waits up to the configured
// response timeout for a frame whose code matches. It returns either the
// frame or one of ErrRejected, ErrTimeout and ErrLinkClosed, never a nil
// frame with a nil error; commands the radio never answers go through
// SendVoid instead.
func (l *Link) SendCommand(code, payload string) (*Frame, error) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if l.isClosed() {
		return nil, ErrLinkClosed
	}

	respCh := make(chan Frame, 1)
	l.pendingMu.Lock()
	l.pendingCode = code
	l.pendingCh = respCh
	l.pendingMu.Unlock()

	line := code + payload + ";"
	l.log.CatTrace('<', line)
	if _, err := l.conn.Write([]byte(line)); err != nil {
		l.clearPending()
		l.Close()
		return nil, fmt.Errorf("%w: %v", ErrLinkClosed, err)
	}

	select {
	case frame := <-respCh:
		if frame.Code == "?" {
			return nil, ErrRejected
		}
		return &frame, nil
	case <-time.After(l.responseTimeout):
		l.clearPending()
		return nil, ErrTimeout
	case <-l.closeCh:
		return nil, ErrLinkClosed
	}
}

// SendVoid writes code+payload+';' without waiting for a reply, for
// commands classified known-void per spec.md §4.1 (PTT, most setters). It
// still serializes against concurrent SendCommand/SendVoid callers so the
// write ordering on the wire matches call ordering.
func (l *Link) SendVoid(code, payload string) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if l.isClosed() {
		return ErrLinkClosed
	}

	line := code + payload + ";"
	l.log.CatTrace('<', line)
	if _, err := l.conn.Write([]byte(line)); err != nil {
		l.Close()
		return fmt.Errorf("%w: %v", ErrLinkClosed, err)
	}
	return nil
}

// SendRaw sends an arbitrary command string, appending ';' if the caller
// omitted it, and returns the raw reply text (without ';'). Used by the
// Hamlib `w`/`send_cmd` verb.
func (l *Link) SendRaw(text string) (string, error) {
	if len(text) == 0 {
		return "", fmt.Errorf("catlink: empty raw command")
	}
	code := text
	if len(text) >= 2 {
		code = text[:2]
	}
	payload := ""
	if len(text) > 2 {
		payload = text[2:]
	}
	frame, err := l.SendCommand(code, payload)
	if err != nil {
		return "", err
	}
	if frame == nil {
		return "", nil
	}
	return frame.Raw(), nil
}

// EnableAutoInfo sends AI1; putting the radio into push mode.
func (l *Link) EnableAutoInfo() error {
	_, err := l.SendCommand("AI", "1")
	if err == nil || errors.Is(err, ErrTimeout) {
		l.autoInfo = true
		return nil
	}
	return err
}

// DisableAutoInfo sends AI0;.
func (l *Link) DisableAutoInfo() error {
	_, err := l.SendCommand("AI", "0")
	l.autoInfo = false
	if errors.Is(err, ErrTimeout) {
		return nil
	}
	return err
}

// SubscribeAI registers a callback invoked for every unsolicited frame. The
// listener list is copy-on-write, so subscribing never disturbs a delivery
// in progress. Callbacks run on the reader goroutine, one after another;
// the reader reads no further frame until they have all returned.
func (l *Link) SubscribeAI(h AIHandler) {
	l.aiMu.Lock()
	defer l.aiMu.Unlock()
	next := make([]AIHandler, len(l.aiListeners)+1)
	copy(next, l.aiListeners)
	next[len(next)-1] = h
	l.aiListeners = next
}

// Close closes the underlying connection and fails any request in flight
// with ErrLinkClosed.
func (l *Link) Close() error {
	l.closeMu.Lock()
	if l.closed {
		l.closeMu.Unlock()
		return nil
	}
	l.closed = true
	close(l.closeCh)
	l.closeMu.Unlock()
	return l.conn.Close()
}

func (l *Link) isClosed() bool {
	l.closeMu.Lock()
	defer l.closeMu.Unlock()
	return l.closed
}

func (l *Link) clearPending() {
	l.pendingMu.Lock()
	l.pendingCode = ""
	l.pendingCh = nil
	l.pendingMu.Unlock()
}

// readLoop owns the serial read endpoint for the lifetime of the link. It
// holds pendingMu only to match and clear the pending slot, and aiMu only
// to take a snapshot of the AI listener slice, which SubscribeAI replaces
// rather than mutating in place; the listeners then run with no lock held.
func (l *Link) readLoop() {
	reader := bufio.NewReader(l.conn)
	for {
		line, err := reader.ReadString(';')
		if err != nil {
			if !l.isClosed() {
				l.Close()
			}
			return
		}
		if len(line) == 0 {
			continue
		}
		raw := line[:len(line)-1] // strip trailing ';'
		if len(raw) > 64 {
			l.log.Warn("catlink", "discarding oversized frame")
			continue
		}
		l.log.CatTrace('>', raw+";")

		frame := parseFrame(raw)

		l.pendingMu.Lock()
		matched := l.pendingCh != nil && (frame.Code == l.pendingCode || frame.Code == "?")
		var deliverTo chan Frame
		if matched {
			deliverTo = l.pendingCh
			l.pendingCh = nil
			l.pendingCode = ""
		}
		l.pendingMu.Unlock()

		if deliverTo != nil {
			deliverTo <- frame
			continue
		}

		l.aiMu.Lock()
		listeners := l.aiListeners
		l.aiMu.Unlock()
		for _, h := range listeners {
			h(frame)
		}
	}
}

func parseFrame(raw string) Frame {
	if raw == "?" {
		return Frame{Code: "?"}
	}
	if len(raw) < 2 {
		return Frame{Code: raw}
	}
	return Frame{Code: raw[:2], Payload: raw[2:]}
}
