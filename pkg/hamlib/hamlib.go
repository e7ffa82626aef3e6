// Package hamlib translates rigctld line-protocol verbs into RadioModel
// calls and formats their replies exactly as Hamlib clients expect.
package hamlib

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/radiomodel"
)

// RPRT codes, per spec.md §4.3.
const (
	RPRTOK      = 0
	RPRTEINVAL  = -1
	RPRTEPROTO  = -2
	RPRTENAVAIL = -11
)

// ChannelStore persists rigctl memory channels (E/e verbs), superseding
// the original firmware's unimplemented set_channel stub.
type ChannelStore interface {
	SaveChannel(num int, freq uint64, mode radiomodel.Mode) error
	LoadChannel(num int) (freq uint64, mode radiomodel.Mode, err error)
}

// Translator dispatches one rigctl command line at a time against a shared
// Model. Callers serialize calls to Dispatch themselves (RigctldServer's
// rig_lock, per spec.md §5) — Translator holds no lock of its own.
type Translator struct {
	model      *radiomodel.Model
	channels   ChannelStore
	now        func() time.Time
	currentMem int
}

// New constructs a Translator. channels may be nil, in which case the E/e
// verbs return RPRT -11; h/H only track the current memory number in the
// Translator and do not use the store.
func New(model *radiomodel.Model, channels ChannelStore) *Translator {
	return &Translator{model: model, channels: channels, now: time.Now}
}

// Dispatch handles one rigctl request line and returns the full reply text,
// newline-terminated, ready to write back to the client verbatim.
func (t *Translator) Dispatch(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return rprt(RPRTEINVAL)
	}

	fields := strings.Fields(line)
	verb := fields[0]
	args := fields[1:]

	if strings.HasPrefix(verb, `\`) {
		return t.dispatchExtended(verb[1:], args)
	}

	switch verb {
	case "f", "get_freq":
		return t.getFreq()
	case "F", "set_freq":
		return t.setFreq(args)
	case "m", "get_mode":
		return t.getMode()
	case "M", "set_mode":
		return t.setMode(args)
	case "t", "get_ptt":
		return t.getPtt()
	case "T", "set_ptt":
		return t.setPtt(args)
	case "v", "get_vfo":
		return t.getVfo()
	case "V", "set_vfo":
		return t.setVfo(args)
	case "s", "get_split_vfo":
		return t.getSplitVfo()
	case "S", "set_split_vfo":
		return t.setSplitVfo(args)
	case "j", "get_rit":
		return t.getRit()
	case "J", "set_rit":
		return t.setRit(args)
	case "z", "get_xit":
		return t.getXit()
	case "Z", "set_xit":
		return t.setXit(args)
	case "l", "get_level":
		return t.getLevel(args)
	case "L", "set_level":
		return t.setLevel(args)
	case "u", "get_func":
		return t.getFunc(args)
	case "U", "set_func":
		return t.setFunc(args)
	case "e", "get_channel":
		return t.getChannel(args)
	case "E", "set_channel":
		return t.setChannel(args)
	case "h", "get_mem":
		return t.getMem()
	case "H", "set_mem":
		return t.setMem(args)
	case "c", "get_ctcss_tone":
		return t.getCtcssTone()
	case "C", "set_ctcss_tone":
		return t.setCtcssTone(args)
	case "d", "get_dcs_code":
		return "0\n"
	case "D", "set_dcs_code":
		return rprt(RPRTOK)
	case "n", "get_ts":
		// The radio's true tuning step is mode-dependent (EX0306) but the
		// original firmware's CAT bridge always reported 10Hz; preserved
		// here as a known, documented deviation rather than corrected.
		return "10\n"
	case "N", "set_ts":
		return rprt(RPRTOK)
	case "w", "send_cmd":
		return t.sendCmd(args)
	case "_", "get_info":
		return "FTX-1\n"
	case "1", "dump_caps":
		return t.dumpCaps()
	case "q", "Q":
		return ""
	default:
		return rprt(RPRTEINVAL)
	}
}

func rprt(code int) string {
	return fmt.Sprintf("RPRT %d\n", code)
}

func (t *Translator) getFreq() string {
	hz, err := t.model.GetFrequency(radiomodel.VFOA)
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	return fmt.Sprintf("%d\n", hz)
}

func (t *Translator) setFreq(args []string) string {
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	// WSJT-X sends floating-point frequencies; round to the nearest Hz.
	hzFloat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return rprt(RPRTEINVAL)
	}
	hz := uint64(hzFloat + 0.5)
	if err := t.model.SetFrequency(radiomodel.VFOA, hz); err != nil {
		return rprt(RPRTEPROTO)
	}
	return rprt(RPRTOK)
}

func (t *Translator) getMode() string {
	mode, err := t.model.GetMode(radiomodel.VFOA)
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	return fmt.Sprintf("%s\n0\n", mode)
}

func (t *Translator) setMode(args []string) string {
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	mode := radiomodel.Mode(args[0])
	if err := t.model.SetMode(radiomodel.VFOA, mode); err != nil {
		return rprt(RPRTEINVAL)
	}
	return rprt(RPRTOK)
}

func (t *Translator) getPtt() string {
	on, err := t.model.GetPTT()
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	if on {
		return "1\n"
	}
	return "0\n"
}

func (t *Translator) setPtt(args []string) string {
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	if err := t.model.SetPTT(args[0] == "1"); err != nil {
		return rprt(RPRTEPROTO)
	}
	return rprt(RPRTOK)
}

func (t *Translator) getVfo() string {
	vfo, err := t.model.GetActiveVFO()
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	if vfo == radiomodel.VFOB {
		return "VFOB\n"
	}
	return "VFOA\n"
}

func (t *Translator) setVfo(args []string) string {
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	vfo := radiomodel.VFOA
	if args[0] == "VFOB" {
		vfo = radiomodel.VFOB
	}
	if err := t.model.SetActiveVFO(vfo); err != nil {
		return rprt(RPRTEPROTO)
	}
	return rprt(RPRTOK)
}

func (t *Translator) getSplitVfo() string {
	split, err := t.model.GetSplit()
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	flag := "0"
	if split {
		flag = "1"
	}
	return flag + "\nVFOB\n"
}

func (t *Translator) setSplitVfo(args []string) string {
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	if err := t.model.SetSplit(args[0] == "1"); err != nil {
		return rprt(RPRTEPROTO)
	}
	return rprt(RPRTOK)
}

func (t *Translator) getRit() string {
	hz, err := t.model.GetRIT()
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	return fmt.Sprintf("%d\n", hz)
}

func (t *Translator) setRit(args []string) string {
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	hz, err := strconv.Atoi(args[0])
	if err != nil {
		return rprt(RPRTEINVAL)
	}
	if err := t.model.SetRIT(hz); err != nil {
		return rprt(RPRTEPROTO)
	}
	return rprt(RPRTOK)
}

func (t *Translator) getXit() string {
	return fmt.Sprintf("%d\n", t.model.GetXIT())
}

func (t *Translator) setXit(args []string) string {
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	hz, err := strconv.Atoi(args[0])
	if err != nil {
		return rprt(RPRTEINVAL)
	}
	if err := t.model.SetXIT(hz); err != nil {
		return rprt(RPRTEPROTO)
	}
	return rprt(RPRTOK)
}

// boolFlag formats a boolean as the "0\n"/"1\n" rigctl expects from
// get_func.
func boolFlag(on bool) string {
	if on {
		return "1\n"
	}
	return "0\n"
}

func (t *Translator) getLevel(args []string) string {
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	switch args[0] {
	case "RFPOWER":
		watts, err := t.model.GetPowerWatts()
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		min, max := t.model.HeadType().PowerRangeMilliwatts()
		norm := (watts*1000 - float64(min)) / float64(max-min)
		return fmt.Sprintf("%.3f\n", norm)
	case "AF":
		raw, err := t.model.GetAFGain(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%.3f\n", float64(raw)/255)
	case "RF":
		raw, err := t.model.GetRFGain(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%.3f\n", float64(raw)/255)
	case "SQL":
		raw, err := t.model.GetSquelch(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%.3f\n", float64(raw)/255)
	case "STRENGTH":
		raw, err := t.model.ReadSMeter(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%d\n", raw-54)
	case "SWR":
		raw, err := t.model.ReadMeter(radiomodel.MeterSWR)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%.1f\n", float64(raw)/10)
	case "ALC", "COMP":
		kind := radiomodel.MeterALC
		if args[0] == "COMP" {
			kind = radiomodel.MeterCOMP
		}
		raw, err := t.model.ReadMeter(kind)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%d\n", raw)
	case "MICGAIN":
		raw, err := t.model.GetMicGain()
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%.3f\n", float64(raw)/100)
	case "VOXGAIN":
		raw, err := t.model.GetVoxGain()
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%.3f\n", float64(raw)/100)
	case "KEYSPD":
		raw, err := t.model.GetKeyerSpeed()
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%d\n", raw)
	case "VOXDELAY":
		raw, err := t.model.GetVoxDelay()
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%d\n", raw)
	case "BKINDL":
		raw, err := t.model.GetBreakInDelay()
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%d\n", raw)
	case "NR":
		raw, err := t.model.GetNRLevel(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%.3f\n", float64(raw)/15)
	case "NB":
		raw, err := t.model.GetNBLevel(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%.3f\n", float64(raw)/15)
	case "AGC":
		level, err := t.model.GetAGC(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%d\n", level)
	case "ATT":
		on, err := t.model.GetAttenuator(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		if on {
			return "12\n"
		}
		return "0\n"
	case "PREAMP":
		raw, err := t.model.GetPreamp(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%d\n", raw*10)
	case "MONITOR_GAIN":
		raw, err := t.model.GetMonitorLevel(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return fmt.Sprintf("%.3f\n", float64(raw)/100)
	default:
		return rprt(RPRTEINVAL)
	}
}

func (t *Translator) setLevel(args []string) string {
	if len(args) < 2 {
		return rprt(RPRTEINVAL)
	}
	level, valStr := args[0], args[1]
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return rprt(RPRTEINVAL)
	}
	switch level {
	case "RFPOWER":
		min, max := t.model.HeadType().PowerRangeMilliwatts()
		mw := float64(min) + val*float64(max-min)
		if err := t.model.SetPowerWatts(mw / 1000); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "AF":
		if err := t.model.SetAFGain(radiomodel.VFOA, int(val*255)); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "RF":
		if err := t.model.SetRFGain(radiomodel.VFOA, int(val*255)); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "SQL":
		if err := t.model.SetSquelch(radiomodel.VFOA, int(val*255)); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "MICGAIN":
		if err := t.model.SetMicGain(int(val * 100)); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "VOXGAIN":
		if err := t.model.SetVoxGain(int(val * 100)); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "KEYSPD":
		if err := t.model.SetKeyerSpeed(int(val)); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "VOXDELAY":
		if err := t.model.SetVoxDelay(int(val)); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "BKINDL":
		if err := t.model.SetBreakInDelay(int(val)); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "NR":
		if err := t.model.SetNRLevel(radiomodel.VFOA, int(val*15)); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "NB":
		if err := t.model.SetNBLevel(radiomodel.VFOA, int(val*15)); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "AGC":
		if err := t.model.SetAGC(radiomodel.VFOA, radiomodel.AGCLevel(int(val))); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "ATT":
		if err := t.model.SetAttenuator(radiomodel.VFOA, val > 0); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "PREAMP":
		if err := t.model.SetPreamp(radiomodel.VFOA, int(val)/10); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "MONITOR_GAIN":
		if err := t.model.SetMonitorLevel(radiomodel.VFOA, int(val*100)); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	default:
		return rprt(RPRTEINVAL)
	}
}

func (t *Translator) getFunc(args []string) string {
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	switch args[0] {
	case "TUNER":
		if t.model.HeadType().HasInternalTuner() {
			return "0\n"
		}
		return rprt(RPRTENAVAIL)
	case "LOCK":
		on, err := t.model.GetLock()
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return boolFlag(on)
	case "COMP":
		on, err := t.model.GetProcessorOn()
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return boolFlag(on)
	case "VOX":
		on, err := t.model.GetVoxOn()
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return boolFlag(on)
	case "TONE":
		mode, err := t.model.GetCtcssMode(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return boolFlag(mode == radiomodel.CtcssEncodeOnly)
	case "TSQL":
		mode, err := t.model.GetCtcssMode(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return boolFlag(mode == radiomodel.CtcssEncodeDecode)
	case "NB":
		level, err := t.model.GetNBLevel(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return boolFlag(level > 0)
	case "NR":
		level, err := t.model.GetNRLevel(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return boolFlag(level > 0)
	case "ANF":
		on, err := t.model.GetAutoNotch(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return boolFlag(on)
	case "APF":
		// No CAT command for the audio peak filter is documented anywhere
		// in the radio's command table; there's nothing to wire this to.
		return rprt(RPRTENAVAIL)
	case "MON", "MN":
		level, err := t.model.GetMonitorLevel(radiomodel.VFOA)
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return boolFlag(level > 0)
	case "RIT":
		hz, err := t.model.GetRIT()
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return boolFlag(hz != 0)
	case "XIT":
		return boolFlag(t.model.GetXIT() != 0)
	case "SBKIN":
		mode, err := t.model.GetBreakInMode()
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return boolFlag(mode == radiomodel.BreakInSemi)
	case "FBKIN":
		mode, err := t.model.GetBreakInMode()
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return boolFlag(mode == radiomodel.BreakInFull)
	default:
		return rprt(RPRTEINVAL)
	}
}

func (t *Translator) setFunc(args []string) string {
	if len(args) < 2 {
		return rprt(RPRTEINVAL)
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		return rprt(RPRTEINVAL)
	}
	switch args[0] {
	case "TUNER":
		if !t.model.HeadType().HasInternalTuner() {
			return rprt(RPRTENAVAIL)
		}
		return rprt(RPRTOK)
	case "LOCK":
		if err := t.model.SetLock(value > 0); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "COMP":
		if err := t.model.SetProcessorOn(value > 0); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "VOX":
		if err := t.model.SetVoxOn(value > 0); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "TONE":
		mode := radiomodel.CtcssOff
		if value > 0 {
			mode = radiomodel.CtcssEncodeOnly
		}
		if err := t.model.SetCtcssMode(radiomodel.VFOA, mode); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "TSQL":
		mode := radiomodel.CtcssOff
		if value > 0 {
			mode = radiomodel.CtcssEncodeDecode
		}
		if err := t.model.SetCtcssMode(radiomodel.VFOA, mode); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "NB":
		level := 0
		if value > 0 {
			level = 8
		}
		if err := t.model.SetNBLevel(radiomodel.VFOA, level); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "NR":
		level := 0
		if value > 0 {
			level = 8
		}
		if err := t.model.SetNRLevel(radiomodel.VFOA, level); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "ANF":
		if err := t.model.SetAutoNotch(radiomodel.VFOA, value > 0); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "APF":
		return rprt(RPRTENAVAIL)
	case "MON", "MN":
		level := 0
		if value > 0 {
			level = 50
		}
		if err := t.model.SetMonitorLevel(radiomodel.VFOA, level); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "RIT":
		// Matches the original: there's no "enabled without an offset"
		// state, so setting RIT on is a no-op and only clearing it (0)
		// does anything.
		if value == 0 {
			if err := t.model.SetRIT(0); err != nil {
				return rprt(RPRTEPROTO)
			}
		}
		return rprt(RPRTOK)
	case "XIT":
		if value == 0 {
			if err := t.model.SetXIT(0); err != nil {
				return rprt(RPRTEPROTO)
			}
		}
		return rprt(RPRTOK)
	case "SBKIN":
		mode := radiomodel.BreakInOff
		if value > 0 {
			mode = radiomodel.BreakInSemi
		}
		if err := t.model.SetBreakInMode(mode); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "FBKIN":
		mode := radiomodel.BreakInOff
		if value > 0 {
			mode = radiomodel.BreakInFull
		}
		if err := t.model.SetBreakInMode(mode); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	default:
		return rprt(RPRTEINVAL)
	}
}

// getChannel and setChannel back the rigctl memory-channel verbs with the
// station's own ChannelStore. The original firmware left set_channel
// unimplemented ("complex", RPRT -11); this implementation persists real
// channel state.
func (t *Translator) getChannel(args []string) string {
	if t.channels == nil {
		return rprt(RPRTENAVAIL)
	}
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	num, err := strconv.Atoi(args[0])
	if err != nil {
		return rprt(RPRTEINVAL)
	}
	freq, mode, err := t.channels.LoadChannel(num)
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	return fmt.Sprintf("%d\n%d\n%s\n0\n", num, freq, mode)
}

func (t *Translator) setChannel(args []string) string {
	if t.channels == nil {
		return rprt(RPRTENAVAIL)
	}
	if len(args) < 3 {
		return rprt(RPRTEINVAL)
	}
	num, err := strconv.Atoi(args[0])
	if err != nil {
		return rprt(RPRTEINVAL)
	}
	freq, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return rprt(RPRTEINVAL)
	}
	mode := radiomodel.Mode(args[2])
	if err := t.channels.SaveChannel(num, freq, mode); err != nil {
		return rprt(RPRTEPROTO)
	}
	return rprt(RPRTOK)
}

func (t *Translator) getMem() string {
	return fmt.Sprintf("%d\n", t.currentMem)
}

func (t *Translator) setMem(args []string) string {
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	num, err := strconv.Atoi(args[0])
	if err != nil {
		return rprt(RPRTEINVAL)
	}
	t.currentMem = num
	return rprt(RPRTOK)
}

func (t *Translator) getCtcssTone() string {
	deciHz, err := t.model.GetCTCSSTone()
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	return fmt.Sprintf("%d\n", deciHz)
}

func (t *Translator) setCtcssTone(args []string) string {
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	deciHz, err := strconv.Atoi(args[0])
	if err != nil {
		return rprt(RPRTEINVAL)
	}
	if err := t.model.SetCTCSSTone(deciHz); err != nil {
		return rprt(RPRTEPROTO)
	}
	return rprt(RPRTOK)
}

// sendCmd is the raw-CAT passthrough (Hamlib's `w`/send_cmd), stripping any
// surrounding quotes and a trailing ';' before forwarding.
func (t *Translator) sendCmd(args []string) string {
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	raw := strings.Join(args, " ")
	raw = strings.Trim(raw, `"`)
	raw = strings.TrimSuffix(raw, ";")
	reply, err := t.model.SendRaw(raw)
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	if reply == "" {
		return "\n"
	}
	return reply + "\n"
}

func (t *Translator) dumpCaps() string {
	var b strings.Builder
	minMw, maxMw := t.model.HeadType().PowerRangeMilliwatts()
	fmt.Fprintf(&b, "Caps dump for model: 1051\n")
	fmt.Fprintf(&b, "Model name:\tFTX-1\n")
	fmt.Fprintf(&b, "Mfg name:\tYaesu\n")
	fmt.Fprintf(&b, "Backend version:\t0.1\n")
	fmt.Fprintf(&b, "Backend status:\tBeta\n")
	fmt.Fprintf(&b, "Rig type:\tTransceiver\n")
	fmt.Fprintf(&b, "PTT type:\tRig capable\n")
	fmt.Fprintf(&b, "Port type:\tSerial\n")
	fmt.Fprintf(&b, "Serial speed:\t38400\n")
	fmt.Fprintf(&b, "Head type:\t%s\n", t.model.HeadType())
	fmt.Fprintf(&b, "Min power:\t%d mW\n", minMw)
	fmt.Fprintf(&b, "Max power:\t%d mW\n", maxMw)
	fmt.Fprintf(&b, "Has tuner:\t%v\n", t.model.HeadType().HasInternalTuner())
	return b.String()
}
