package audioproto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeAudioFrame(t *testing.T) {
	payload := bytes.Repeat([]byte{0x11, 0x22}, FrameBytes/2)
	f := Frame{Type: FrameAudioRX, Payload: payload}

	encoded := f.Encode()
	decoded, err := ReadFrame(bytes.NewReader(encoded))
	require.NoError(t, err)

	assert.Equal(t, FrameAudioRX, decoded.Type)
	assert.Equal(t, payload, decoded.Payload)
}

func TestReadFrameRejectsCRCMismatch(t *testing.T) {
	f := Frame{Type: FrameHeartbeat}
	encoded := f.Encode()
	encoded[len(encoded)-1] ^= 0xFF

	_, err := ReadFrame(bytes.NewReader(encoded))
	assert.ErrorIs(t, err, ErrCRCMismatch)
}

func TestControlMessageRoundTrip(t *testing.T) {
	msg := ControlMessage{
		SubType: AudioConfig,
		Format:  &DefaultAudioFormat,
	}
	f := EncodeControl(msg)
	assert.Equal(t, FrameControl, f.Type)

	decoded, err := DecodeControl(f)
	require.NoError(t, err)
	assert.Equal(t, AudioConfig, decoded.SubType)
	require.NotNil(t, decoded.Format)
	assert.Equal(t, 48000, decoded.Format.SampleRateHz)
}

func TestConnectRejectCarriesReason(t *testing.T) {
	f := EncodeControl(ControlMessage{SubType: ConnectReject, Reason: RejectBusy})
	decoded, err := DecodeControl(f)
	require.NoError(t, err)
	assert.Equal(t, RejectBusy, decoded.Reason)
}

func TestDecodeControlRejectsNonControlFrame(t *testing.T) {
	_, err := DecodeControl(Frame{Type: FrameAudioTX})
	assert.Error(t, err)
}

func TestReadFrameMultipleFramesOnStream(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Heartbeat().Encode())
	buf.Write(HeartbeatAck().Encode())

	first, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, FrameHeartbeat, first.Type)

	second, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, FrameHeartbeatAck, second.Type)
}
