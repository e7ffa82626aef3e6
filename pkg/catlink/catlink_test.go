package catlink

import (
	"bufio"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRadio is an in-memory stand-in for the serial port, playing the part
// of the radio: it parses whatever command is written to it and answers
// deterministically, the same way MockRadio fakes a hardware backend.
type fakeRadio struct {
	mu       sync.Mutex
	toLink   *io.PipeWriter
	fromLink *io.PipeReader

	toRadio   *io.PipeReader
	fromRadio *io.PipeWriter

	freq int64
	mode string

	aiOn    bool
	aiPush  []string
	noReply map[string]bool
}

// newFakeRadio wires up a pair of pipes so the Link sees a single
// io.ReadWriteCloser, while the test can drive the radio side independently.
func newFakeRadio() (*fakeRadio, io.ReadWriteCloser) {
	toLinkR, toLinkW := io.Pipe()   // radio -> link
	fromLinkR, fromLinkW := io.Pipe() // link -> radio

	r := &fakeRadio{
		toLink:    toLinkW,
		fromLink:  fromLinkR,
		toRadio:   toLinkR,
		fromRadio: fromLinkW,
		freq:      14074000,
		mode:      "USB",
		noReply:   make(map[string]bool),
	}
	go r.serve()
	return r, &pipeConn{r: toLinkR, w: fromLinkW}
}

type pipeConn struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (p *pipeConn) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *pipeConn) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p *pipeConn) Close() error {
	p.w.Close()
	return p.r.Close()
}

func (r *fakeRadio) serve() {
	reader := bufio.NewReader(r.fromLink)
	for {
		line, err := reader.ReadString(';')
		if err != nil {
			return
		}
		raw := strings.TrimSuffix(line, ";")
		r.handle(raw)
	}
}

func (r *fakeRadio) handle(raw string) {
	r.mu.Lock()
	code := raw
	if len(raw) >= 2 {
		code = raw[:2]
	}
	if r.noReply[code] {
		r.mu.Unlock()
		return
	}
	switch code {
	case "FA":
		if len(raw) > 2 {
			r.freq = parseInt(raw[2:])
			r.mu.Unlock()
			return
		}
		reply := fmtFreq("FA", r.freq)
		r.mu.Unlock()
		r.send(reply)
		return
	case "MD":
		reply := "MD" + modeCode(r.mode) + ";"
		r.mu.Unlock()
		r.send(reply)
		return
	case "AI":
		if raw == "AI1" {
			r.aiOn = true
		} else if raw == "AI0" {
			r.aiOn = false
		}
		r.mu.Unlock()
		return
	case "ZZ":
		r.mu.Unlock()
		r.send("?;")
		return
	}
	r.mu.Unlock()
}

func (r *fakeRadio) send(line string) {
	_, _ = r.toLink.Write([]byte(line))
}

func (r *fakeRadio) pushAI(line string) {
	_, _ = r.toLink.Write([]byte(line))
}

func parseInt(s string) int64 {
	var n int64
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int64(c-'0')
	}
	return n
}

func fmtFreq(code string, freq int64) string {
	return code + padFreq(freq) + ";"
}

func padFreq(freq int64) string {
	s := itoa(freq)
	for len(s) < 9 {
		s = "0" + s
	}
	return s
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func modeCode(mode string) string {
	switch mode {
	case "USB":
		return "2"
	case "LSB":
		return "1"
	default:
		return "0"
	}
}

func newTestLink(t *testing.T) (*Link, *fakeRadio) {
	radio, conn := newFakeRadio()
	link := newLink(conn, 200*time.Millisecond, nil)
	t.Cleanup(func() { link.Close() })
	return link, radio
}

func TestSendCommandRoundTrip(t *testing.T) {
	link, _ := newTestLink(t)

	frame, err := link.SendCommand("FA", "")
	require.NoError(t, err)
	require.NotNil(t, frame)
	assert.Equal(t, "FA", frame.Code)
	assert.Equal(t, "014074000", frame.Payload)
}

func TestSendCommandSetHasNoReply(t *testing.T) {
	link, radio := newTestLink(t)

	_, err := link.SendCommand("FA", "014250000")
	assert.ErrorIs(t, err, ErrTimeout)

	radio.mu.Lock()
	got := radio.freq
	radio.mu.Unlock()
	assert.Equal(t, int64(14250000), got)
}

func TestSendCommandRejected(t *testing.T) {
	link, _ := newTestLink(t)

	_, err := link.SendCommand("ZZ", "")
	assert.ErrorIs(t, err, ErrRejected)
}

func TestAIPushesDoNotMatchPendingRequest(t *testing.T) {
	link, radio := newTestLink(t)

	received := make(chan Frame, 1)
	link.SubscribeAI(func(f Frame) {
		received <- f
	})

	radio.pushAI("FA014074000;")

	select {
	case f := <-received:
		assert.Equal(t, "FA", f.Code)
	case <-time.After(time.Second):
		t.Fatal("AI frame not delivered to subscriber")
	}
}

func TestCloseFailsInFlightRequest(t *testing.T) {
	link, radio := newTestLink(t)
	radio.mu.Lock()
	radio.noReply["MD"] = true
	radio.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		_, err := link.SendCommand("MD", "")
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	link.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrLinkClosed)
	case <-time.After(time.Second):
		t.Fatal("SendCommand did not return after Close")
	}
}

func TestSendCommandAfterCloseIsRejected(t *testing.T) {
	link, _ := newTestLink(t)
	link.Close()

	_, err := link.SendCommand("FA", "")
	assert.ErrorIs(t, err, ErrLinkClosed)
}
