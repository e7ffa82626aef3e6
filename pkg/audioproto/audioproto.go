// Package audioproto implements the binary framing used by the audio
// bridge: a type-tagged, length-prefixed, CRC-checked frame carrying either
// raw PCM or a serialized control message.
package audioproto

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"
)

// FrameType tags the payload carried by a Frame.
type FrameType byte

const (
	FrameControl      FrameType = 1
	FrameAudioRX      FrameType = 2
	FrameAudioTX      FrameType = 3
	FrameHeartbeat    FrameType = 4
	FrameHeartbeatAck FrameType = 5
)

// MaxFrameLength bounds the length field to guard against a corrupt length
// prefix forcing an unbounded allocation.
const MaxFrameLength = 1 << 16

// Frame is one wire unit: [type:1][length:2 BE][payload:length][crc32:4].
type Frame struct {
	Type    FrameType
	Payload []byte
}

// Encode serializes the frame, computing the CRC over type|length|payload.
func (f Frame) Encode() []byte {
	buf := make([]byte, 3+len(f.Payload)+4)
	buf[0] = byte(f.Type)
	binary.BigEndian.PutUint16(buf[1:3], uint16(len(f.Payload)))
	copy(buf[3:], f.Payload)
	sum := crc32.ChecksumIEEE(buf[:3+len(f.Payload)])
	binary.BigEndian.PutUint32(buf[3+len(f.Payload):], sum)
	return buf
}

// ErrCRCMismatch is returned by ReadFrame when a frame's trailing CRC does
// not match its type|length|payload.
var ErrCRCMismatch = fmt.Errorf("audioproto: CRC mismatch")

// ReadFrame reads exactly one frame from r, validating its CRC. A CRC
// mismatch is reported as ErrCRCMismatch so callers can increment their
// error counter and keep reading; any other error is a transport failure.
func ReadFrame(r io.Reader) (Frame, error) {
	var header [3]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Frame{}, err
	}
	typ := FrameType(header[0])
	length := binary.BigEndian.Uint16(header[1:3])
	if int(length) > MaxFrameLength {
		return Frame{}, fmt.Errorf("audioproto: frame length %d exceeds maximum", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Frame{}, err
	}

	var crcBuf [4]byte
	if _, err := io.ReadFull(r, crcBuf[:]); err != nil {
		return Frame{}, err
	}

	want := binary.BigEndian.Uint32(crcBuf[:])
	got := crc32.ChecksumIEEE(append(append([]byte{byte(typ)}, header[1:3]...), payload...))
	if want != got {
		return Frame{}, ErrCRCMismatch
	}
	return Frame{Type: typ, Payload: payload}, nil
}

// ControlSubType identifies the kind of control message carried in a
// FrameControl payload.
type ControlSubType string

const (
	ConnectRequest  ControlSubType = "CONNECT_REQUEST"
	ConnectAccept   ControlSubType = "CONNECT_ACCEPT"
	ConnectReject   ControlSubType = "CONNECT_REJECT"
	AudioConfig     ControlSubType = "AUDIO_CONFIG"
	Disconnect      ControlSubType = "DISCONNECT"
	LatencyProbe    ControlSubType = "LATENCY_PROBE"
	LatencyResponse ControlSubType = "LATENCY_RESPONSE"
	ControlError    ControlSubType = "ERROR"
)

// RejectReason qualifies a CONNECT_REJECT control message.
type RejectReason string

const (
	RejectBusy     RejectReason = "BUSY"
	RejectRejected RejectReason = "REJECTED"
)

// AudioFormat describes the fixed PCM format carried by AUDIO_RX/TX frames,
// echoed to the client in the AUDIO_CONFIG control message.
type AudioFormat struct {
	SampleRateHz int `json:"sample_rate_hz"`
	BitsPerSample int `json:"bits_per_sample"`
	Channels      int `json:"channels"`
	FrameMs       int `json:"frame_ms"`
}

// DefaultAudioFormat is the fixed, non-negotiable format required for
// WSJT-X interoperability (spec.md §4.7).
var DefaultAudioFormat = AudioFormat{SampleRateHz: 48000, BitsPerSample: 16, Channels: 1, FrameMs: 20}

// FrameBytes is the payload size of one frame at DefaultAudioFormat: 960
// samples (20ms at 48kHz) * 2 bytes/sample.
const FrameBytes = 1920

// ControlMessage is the JSON body of a FrameControl frame.
type ControlMessage struct {
	SubType      ControlSubType `json:"sub_type"`
	Reason       RejectReason   `json:"reason,omitempty"`
	Format       *AudioFormat   `json:"format,omitempty"`
	TimestampUnixNano int64     `json:"timestamp_unix_nano,omitempty"`
	Message      string         `json:"message,omitempty"`
}

// EncodeControl serializes a ControlMessage into a FrameControl Frame.
func EncodeControl(msg ControlMessage) Frame {
	payload, _ := json.Marshal(msg)
	return Frame{Type: FrameControl, Payload: payload}
}

// DecodeControl parses a FrameControl frame's payload.
func DecodeControl(f Frame) (ControlMessage, error) {
	if f.Type != FrameControl {
		return ControlMessage{}, fmt.Errorf("audioproto: frame type %d is not CONTROL", f.Type)
	}
	var msg ControlMessage
	if err := json.Unmarshal(f.Payload, &msg); err != nil {
		return ControlMessage{}, fmt.Errorf("audioproto: decode control message: %w", err)
	}
	return msg, nil
}

// Heartbeat builds a HEARTBEAT frame (empty payload).
func Heartbeat() Frame { return Frame{Type: FrameHeartbeat} }

// HeartbeatAck builds a HEARTBEAT_ACK frame (empty payload).
func HeartbeatAck() Frame { return Frame{Type: FrameHeartbeatAck} }
