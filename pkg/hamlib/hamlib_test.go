package hamlib

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/catlink"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/radiomodel"
)

// testRadio is a minimal in-memory CAT responder, enough to exercise the
// translator's freq/mode/ptt/vfo/split verbs and head-type detection.
type testRadio struct {
	mu         sync.Mutex
	freq       map[string]uint64
	mode       map[string]byte
	ptt        bool
	vfo        string
	split      bool
	rit        int
	ctcssIndex int
	afGain     int
	micGain    int
	keySpeed   int
	lock       bool
	breakIn    int
	toLink     *io.PipeWriter
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

func newTestRadio() (*testRadio, io.ReadWriteCloser) {
	toLinkR, toLinkW := io.Pipe()
	fromLinkR, fromLinkW := io.Pipe()
	r := &testRadio{
		freq:   map[string]uint64{"FA": 14074000, "FB": 7074000},
		mode:   map[string]byte{"0": '2', "1": '2'},
		vfo:    "0",
		toLink: toLinkW,
	}
	go r.serve(fromLinkR)
	return r, &pipeConn{r: toLinkR, w: fromLinkW}
}

func (r *testRadio) serve(from *io.PipeReader) {
	reader := bufio.NewReader(from)
	for {
		line, err := reader.ReadString(';')
		if err != nil {
			return
		}
		r.handle(strings.TrimSuffix(line, ";"))
	}
}

func (r *testRadio) reply(line string) {
	_, _ = r.toLink.Write([]byte(line))
}

func (r *testRadio) handle(raw string) {
	code := raw
	if len(raw) >= 2 {
		code = raw[:2]
	}
	arg := ""
	if len(raw) > 2 {
		arg = raw[2:]
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch code {
	case "ID":
		r.reply("ID0840;")
	case "PC":
		if arg == "" {
			r.reply("PC5.0;")
			return
		}
		if arg == "10.8" {
			r.reply("?;")
			return
		}
	case "FA", "FB":
		if arg == "" {
			r.reply(padFreq(code, r.freq[code]))
			return
		}
		var n uint64
		for _, c := range arg {
			if c < '0' || c > '9' {
				break
			}
			n = n*10 + uint64(c-'0')
		}
		r.freq[code] = n
	case "MD":
		if len(arg) == 1 {
			r.reply("MD" + arg + string(r.mode[arg]) + ";")
			return
		}
		if len(arg) >= 2 {
			r.mode[arg[:1]] = arg[1]
		}
	case "TX":
		if arg == "" {
			if r.ptt {
				r.reply("TX1;")
			} else {
				r.reply("TX0;")
			}
			return
		}
		r.ptt = arg == "1"
	case "VS":
		if arg == "" {
			r.reply("VS" + r.vfo + ";")
			return
		}
		r.vfo = arg
	case "ST":
		if arg == "" {
			flag := "0"
			if r.split {
				flag = "1"
			}
			r.reply("ST" + flag + ";")
			return
		}
		r.split = arg == "1"
	case "RM":
		r.reply("RM" + arg + "050;")
	case "SM":
		r.reply("SM" + arg + "128;")
	case "RC":
		n, _ := strconv.Atoi(arg)
		r.rit = n
	case "RI":
		r.reply(fmt.Sprintf("RI%s%+05d;", arg, r.rit))
	case "CN":
		if len(arg) <= 1 {
			r.reply(fmt.Sprintf("CN%s%02d;", arg, r.ctcssIndex))
			return
		}
		n, _ := strconv.Atoi(arg[1:])
		r.ctcssIndex = n
	case "AG":
		if len(arg) <= 1 {
			r.reply(fmt.Sprintf("AG%s%03d;", arg, r.afGain))
			return
		}
		n, _ := strconv.Atoi(arg[1:])
		r.afGain = n
	case "MG":
		if arg == "" {
			r.reply(fmt.Sprintf("MG%03d;", r.micGain))
			return
		}
		n, _ := strconv.Atoi(arg)
		r.micGain = n
	case "KS":
		if arg == "" {
			r.reply(fmt.Sprintf("KS%03d;", r.keySpeed))
			return
		}
		n, _ := strconv.Atoi(arg)
		r.keySpeed = n
	case "LK":
		if arg == "" {
			flag := "0"
			if r.lock {
				flag = "1"
			}
			r.reply("LK" + flag + ";")
			return
		}
		r.lock = arg == "1"
	case "BI":
		if arg == "" {
			r.reply(fmt.Sprintf("BI%d;", r.breakIn))
			return
		}
		n, _ := strconv.Atoi(arg)
		r.breakIn = n
	}
}

func padFreq(code string, hz uint64) string {
	s := ""
	n := hz
	if n == 0 {
		s = "0"
	}
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	for len(s) < 9 {
		s = "0" + s
	}
	return code + s + ";"
}

type fakeChannels struct {
	freq map[int]uint64
	mode map[int]radiomodel.Mode
}

func newFakeChannels() *fakeChannels {
	return &fakeChannels{freq: map[int]uint64{}, mode: map[int]radiomodel.Mode{}}
}

func (f *fakeChannels) SaveChannel(num int, freq uint64, mode radiomodel.Mode) error {
	f.freq[num] = freq
	f.mode[num] = mode
	return nil
}

func (f *fakeChannels) LoadChannel(num int) (uint64, radiomodel.Mode, error) {
	return f.freq[num], f.mode[num], nil
}

func newTestTranslator(t *testing.T) *Translator {
	_, conn := newTestRadio()
	link := catlink.NewForTest(conn, 200*time.Millisecond)
	t.Cleanup(func() { link.Close() })
	model := radiomodel.New(link)
	require.NoError(t, model.Detect())
	return New(model, newFakeChannels())
}

func TestDispatchEmptyLine(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT -1\n", tr.Dispatch(""))
}

func TestDispatchUnknownVerb(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT -1\n", tr.Dispatch("bogus"))
}

func TestDispatchGetSetFreq(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT 0\n", tr.Dispatch("F 14250000"))
	assert.Equal(t, "14250000\n", tr.Dispatch("f"))
}

func TestDispatchSetFreqAcceptsFloat(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT 0\n", tr.Dispatch("set_freq 28074055.000000"))
	assert.Equal(t, "28074055\n", tr.Dispatch("get_freq"))
}

func TestDispatchGetTsIsFixed(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "10\n", tr.Dispatch("n"))
	assert.Equal(t, "10\n", tr.Dispatch("get_ts"))
}

func TestDispatchSetChannelRoundTrip(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT 0\n", tr.Dispatch("E 3 14074000 USB"))
	assert.Equal(t, "3\n14074000\nUSB\n0\n", tr.Dispatch("e 3"))
}

func TestDispatchRitRoundTrip(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT 0\n", tr.Dispatch("J 500"))
	assert.Equal(t, "500\n", tr.Dispatch("j"))
}

func TestDispatchXitRoundTrip(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT 0\n", tr.Dispatch("Z -250"))
	assert.Equal(t, "-250\n", tr.Dispatch("z"))
}

func TestDispatchCtcssToneRoundTripSnapsToTable(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT 0\n", tr.Dispatch("C 885"))
	assert.Equal(t, "885\n", tr.Dispatch("c"))
}

func TestDispatchGetSetLevelRfpower(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT 0\n", tr.Dispatch("L RFPOWER 1.000"))
	out := tr.Dispatch("l RFPOWER")
	norm, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, norm, 0.0)
	assert.LessOrEqual(t, norm, 1.0)
}

func TestDispatchGetSetLevelAfGainRoundTrip(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT 0\n", tr.Dispatch("L AF 0.500"))
	out := tr.Dispatch("l AF")
	norm, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, norm, 0.01)
}

func TestDispatchGetLevelUnknownIsEinval(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT -1\n", tr.Dispatch("l INVALID"))
}

func TestDispatchSetLevelUnknownIsEinval(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT -1\n", tr.Dispatch("L INVALID 1"))
}

func TestDispatchGetSetFuncLockRoundTrip(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT 0\n", tr.Dispatch("U LOCK 1"))
	assert.Equal(t, "1\n", tr.Dispatch("u LOCK"))
	assert.Equal(t, "RPRT 0\n", tr.Dispatch("U LOCK 0"))
	assert.Equal(t, "0\n", tr.Dispatch("u LOCK"))
}

func TestDispatchGetSetFuncFbkinRoundTrip(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT 0\n", tr.Dispatch("U FBKIN 1"))
	assert.Equal(t, "1\n", tr.Dispatch("u FBKIN"))
	assert.Equal(t, "0\n", tr.Dispatch("u SBKIN"))
}

func TestDispatchGetFuncUnknownIsEinval(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT -1\n", tr.Dispatch("u INVALID"))
}

func TestDispatchGetFuncApfIsNavail(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "RPRT -11\n", tr.Dispatch("u APF"))
}

func TestDumpStateContainsRigModel(t *testing.T) {
	tr := newTestTranslator(t)
	out := tr.Dispatch(`\dump_state`)
	assert.Contains(t, out, "1051\n")
}

func TestDumpCapsContainsModelLine(t *testing.T) {
	tr := newTestTranslator(t)
	out := tr.Dispatch("1")
	assert.Contains(t, out, "Caps dump for model: 1051")
}
