package hamlib

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/radiomodel"
)

// dispatchExtended handles the backslash-prefixed long-form rigctl verbs.
func (t *Translator) dispatchExtended(verb string, args []string) string {
	switch verb {
	case "dump_state":
		return t.dumpState()
	case "get_powerstat":
		return "1\n"
	case "set_powerstat":
		return rprt(RPRTOK)
	case "chk_vfo":
		return "0\n"
	case "get_vfo_info":
		return t.getVfoInfo()
	case "get_rig_info":
		return t.getRigInfo()
	case "get_split_mode":
		return t.getSplitMode()
	case "set_split_mode":
		return t.setSplitMode(args)
	case "get_split_freq":
		return t.getSplitFreq()
	case "set_split_freq":
		return t.setSplitFreq(args)
	case "get_split_freq_mode":
		return t.getSplitFreqMode()
	case "set_split_freq_mode":
		return t.setSplitFreqMode(args)
	case "get_clock":
		return t.now().UTC().Format("2006-01-02 15:04:05.000000 +0000") + "\n"
	case "set_clock":
		return rprt(RPRTOK)
	case "get_lock_mode":
		return "0\n"
	case "set_lock_mode":
		return rprt(RPRTOK)
	case "send_morse":
		return t.sendMorse(args)
	case "stop_morse":
		_, err := t.model.SendRaw("KY")
		if err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "wait_morse":
		return rprt(RPRTOK)
	case "send_voice_mem":
		return t.sendVoiceMem(args)
	case "halt":
		if err := t.model.SetPTT(false); err != nil {
			return rprt(RPRTEPROTO)
		}
		return rprt(RPRTOK)
	case "pause":
		return rprt(RPRTOK)
	default:
		return rprt(RPRTEINVAL)
	}
}

// dumpState emits the fixed structural block Hamlib clients parse to learn
// the rig's capability envelope. Every literal here, including the
// terminator lines and bitmasks, mirrors what the original firmware's CAT
// bridge emitted; only the TX power figures vary with the detected head.
func (t *Translator) dumpState() string {
	var b strings.Builder
	minMw, maxMw := t.model.HeadType().PowerRangeMilliwatts()

	fmt.Fprintf(&b, "0\n")    // protocol version
	fmt.Fprintf(&b, "1051\n") // rig model
	fmt.Fprintf(&b, "0\n")    // ITU region

	fmt.Fprintf(&b, "%.0f %.0f 0x%x %d %d 0x%x 0x%x\n",
		1800000.0, 54000000.0, 0x8ff, -1, -1, 0x3, 0x1)
	fmt.Fprintf(&b, "0 0 0 0 0 0 0\n")

	fmt.Fprintf(&b, "%.0f %.0f 0x%x %d %d 0x%x 0x%x\n",
		1800000.0, 54000000.0, 0x8ff, minMw, maxMw, 0x3, 0x1)
	fmt.Fprintf(&b, "0 0 0 0 0 0 0\n")

	for _, step := range []int{1, 10, 100, 1000} {
		fmt.Fprintf(&b, "0x8ff %d\n", step)
	}
	fmt.Fprintf(&b, "0 0\n")

	fmt.Fprintf(&b, "0x3 2400\n")
	fmt.Fprintf(&b, "0xc 500\n")
	fmt.Fprintf(&b, "0x20 6000\n")
	fmt.Fprintf(&b, "0x40 12000\n")
	fmt.Fprintf(&b, "0 0\n")

	fmt.Fprintf(&b, "9999\n9999\n0\n")
	fmt.Fprintf(&b, "0\n") // announces
	fmt.Fprintf(&b, "0\n") // preamp levels
	fmt.Fprintf(&b, "0\n") // attenuator levels

	fmt.Fprintf(&b, "0x0\n")                     // has_get_func
	fmt.Fprintf(&b, "0x0\n")                     // has_set_func
	fmt.Fprintf(&b, "0x%x\n", 0x4|0x8|0x1000)    // has_get_level
	fmt.Fprintf(&b, "0x%x\n", 0x8)               // has_set_level
	fmt.Fprintf(&b, "0\n")                       // has_get_parm
	fmt.Fprintf(&b, "0\n")                       // has_set_parm

	return b.String()
}

func (t *Translator) getVfoInfo() string {
	hz, err := t.model.GetFrequency(radiomodel.VFOA)
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	mode, err := t.model.GetMode(radiomodel.VFOA)
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	return fmt.Sprintf("%d\n%s\n0\n0\n0\n0\n0\n", hz, mode)
}

func (t *Translator) getRigInfo() string {
	hz, err := t.model.GetFrequency(radiomodel.VFOA)
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	mode, err := t.model.GetMode(radiomodel.VFOA)
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	vfo, _ := t.model.GetActiveVFO()
	vfoName := "VFOA"
	if vfo == radiomodel.VFOB {
		vfoName = "VFOB"
	}
	return fmt.Sprintf("VFO=%s Freq=%d Mode=%s Width=0\n", vfoName, hz, mode)
}

func (t *Translator) getSplitMode() string {
	split, err := t.model.GetSplit()
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	mode, _ := t.model.GetMode(radiomodel.VFOB)
	flag := "0"
	if split {
		flag = "1"
	}
	return fmt.Sprintf("%s\n%s\n0\n", flag, mode)
}

func (t *Translator) setSplitMode(args []string) string {
	if len(args) < 2 {
		return rprt(RPRTEINVAL)
	}
	if err := t.model.SetSplit(args[0] == "1"); err != nil {
		return rprt(RPRTEPROTO)
	}
	if err := t.model.SetMode(radiomodel.VFOB, radiomodel.Mode(args[1])); err != nil {
		return rprt(RPRTEPROTO)
	}
	return rprt(RPRTOK)
}

func (t *Translator) getSplitFreq() string {
	hz, err := t.model.GetFrequency(radiomodel.VFOB)
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	return fmt.Sprintf("%d\n", hz)
}

func (t *Translator) setSplitFreq(args []string) string {
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	hz, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return rprt(RPRTEINVAL)
	}
	if err := t.model.SetFrequency(radiomodel.VFOB, hz); err != nil {
		return rprt(RPRTEPROTO)
	}
	return rprt(RPRTOK)
}

func (t *Translator) getSplitFreqMode() string {
	hz, err := t.model.GetFrequency(radiomodel.VFOB)
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	mode, err := t.model.GetMode(radiomodel.VFOB)
	if err != nil {
		return rprt(RPRTEPROTO)
	}
	split, _ := t.model.GetSplit()
	flag := "0"
	if split {
		flag = "1"
	}
	return fmt.Sprintf("%s\n%d\n%s\n0\n", flag, hz, mode)
}

func (t *Translator) setSplitFreqMode(args []string) string {
	if len(args) < 3 {
		return rprt(RPRTEINVAL)
	}
	hz, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return rprt(RPRTEINVAL)
	}
	if err := t.model.SetSplit(args[0] == "1"); err != nil {
		return rprt(RPRTEPROTO)
	}
	if err := t.model.SetFrequency(radiomodel.VFOB, hz); err != nil {
		return rprt(RPRTEPROTO)
	}
	if err := t.model.SetMode(radiomodel.VFOB, radiomodel.Mode(args[2])); err != nil {
		return rprt(RPRTEPROTO)
	}
	return rprt(RPRTOK)
}

// sendMorse forwards CW text to the radio's built-in keyer via KY<text>;.
func (t *Translator) sendMorse(args []string) string {
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	text := strings.Join(args, " ")
	if _, err := t.model.SendRaw("KY" + text); err != nil {
		return rprt(RPRTEPROTO)
	}
	return rprt(RPRTOK)
}

// sendVoiceMem plays back stored voice memory 1-5 via PB<mem>;.
func (t *Translator) sendVoiceMem(args []string) string {
	if len(args) < 1 {
		return rprt(RPRTEINVAL)
	}
	mem, err := strconv.Atoi(args[0])
	if err != nil || mem < 1 || mem > 5 {
		return rprt(RPRTEINVAL)
	}
	if _, err := t.model.SendRaw(fmt.Sprintf("PB%d", mem)); err != nil {
		return rprt(RPRTEPROTO)
	}
	return rprt(RPRTOK)
}
