package audiobridge

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/audioproto"
)

func newTestServer(t *testing.T) (*AudioServer, *SoftwareLine, *SoftwareLine) {
	playback := NewSoftwareLine(48000, audioproto.FrameBytes)
	captureFactory := func() Line { return NewSoftwareLine(48000, audioproto.FrameBytes) }
	playbackFactory := func() Line { return playback }

	srv := New(Config{
		HandshakeTimeout:  2 * time.Second,
		HeartbeatInterval: 2 * time.Second,
		HeartbeatMisses:   3,
		BufferMs:          200,
		TargetLatencyMs:   20,
	}, captureFactory, playbackFactory, nil)

	require.NoError(t, srv.Start("127.0.0.1:0"))
	t.Cleanup(func() { srv.Stop(context.Background()) })

	return srv, nil, playback
}

func dialAndHandshake(t *testing.T, addr string) net.Conn {
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)

	_, err = conn.Write(audioproto.EncodeControl(audioproto.ControlMessage{SubType: audioproto.ConnectRequest}).Encode())
	require.NoError(t, err)

	configFrame, err := audioproto.ReadFrame(conn)
	require.NoError(t, err)
	configMsg, err := audioproto.DecodeControl(configFrame)
	require.NoError(t, err)
	assert.Equal(t, audioproto.AudioConfig, configMsg.SubType)

	acceptFrame, err := audioproto.ReadFrame(conn)
	require.NoError(t, err)
	acceptMsg, err := audioproto.DecodeControl(acceptFrame)
	require.NoError(t, err)
	assert.Equal(t, audioproto.ConnectAccept, acceptMsg.SubType)

	return conn
}

func TestAudioServerHandshakeThenStream(t *testing.T) {
	srv, _, playback := newTestServer(t)
	conn := dialAndHandshake(t, srv.listener.Addr().String())
	defer conn.Close()

	payload := bytes.Repeat([]byte{0x5A}, audioproto.FrameBytes)
	for i := 0; i < 5; i++ {
		_, err := conn.Write(audioproto.Frame{Type: audioproto.FrameAudioTX, Payload: payload}.Encode())
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		return playback != nil && playback.BytesWritten() >= int64(5*audioproto.FrameBytes)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAudioServerCapturesSilenceToClient(t *testing.T) {
	srv, _, _ := newTestServer(t)
	conn := dialAndHandshake(t, srv.listener.Addr().String())
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	frame, err := audioproto.ReadFrame(conn)
	require.NoError(t, err)
	assert.Equal(t, audioproto.FrameAudioRX, frame.Type)
	assert.Len(t, frame.Payload, audioproto.FrameBytes)
}

func TestAudioServerRejectsSecondClientWithBusy(t *testing.T) {
	srv, _, _ := newTestServer(t)
	conn1 := dialAndHandshake(t, srv.listener.Addr().String())
	defer conn1.Close()

	conn2, err := net.Dial("tcp", srv.listener.Addr().String())
	require.NoError(t, err)
	defer conn2.Close()

	_, err = conn2.Write(audioproto.EncodeControl(audioproto.ControlMessage{SubType: audioproto.ConnectRequest}).Encode())
	require.NoError(t, err)

	conn2.SetReadDeadline(time.Now().Add(2 * time.Second))
	frame, err := audioproto.ReadFrame(conn2)
	require.NoError(t, err)
	msg, err := audioproto.DecodeControl(frame)
	require.NoError(t, err)
	assert.Equal(t, audioproto.ConnectReject, msg.SubType)
	assert.Equal(t, audioproto.RejectBusy, msg.Reason)
}

func TestAudioServerLatencyProbeRoundTrip(t *testing.T) {
	srv, _, _ := newTestServer(t)
	conn := dialAndHandshake(t, srv.listener.Addr().String())
	defer conn.Close()

	sentAt := time.Now()
	_, err := conn.Write(audioproto.EncodeControl(audioproto.ControlMessage{
		SubType:           audioproto.LatencyProbe,
		TimestampUnixNano: sentAt.UnixNano(),
	}).Encode())
	require.NoError(t, err)

	for {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		frame, err := audioproto.ReadFrame(conn)
		require.NoError(t, err)
		if frame.Type != audioproto.FrameControl {
			continue
		}
		msg, err := audioproto.DecodeControl(frame)
		require.NoError(t, err)
		if msg.SubType == audioproto.LatencyResponse {
			assert.Equal(t, sentAt.UnixNano(), msg.TimestampUnixNano)
			return
		}
	}
}
