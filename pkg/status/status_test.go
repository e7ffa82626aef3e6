package status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() Snapshot {
	return Snapshot{
		HeadType:          "Field/12V",
		ActiveVFO:         "A",
		FrequencyHz:       14074000,
		Mode:              "USB",
		RigctlClientCount: 1,
	}
}

func TestStatusEndpointReturnsSnapshot(t *testing.T) {
	srv := New(testSnapshot, nil)
	require.NoError(t, srv.Start("127.0.0.1:0"))
	defer srv.Stop(context.Background())

	addr := listenerAddr(t, srv)

	resp, err := http.Get(fmt.Sprintf("http://%s/status", addr))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var snap Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, uint64(14074000), snap.FrequencyHz)
	assert.Equal(t, "USB", snap.Mode)
}

func TestWebSocketReceivesPushedSnapshot(t *testing.T) {
	srv := New(testSnapshot, nil)
	require.NoError(t, srv.Start("127.0.0.1:0"))
	defer srv.Stop(context.Background())

	addr := listenerAddr(t, srv)

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws", addr), nil)
	require.NoError(t, err)
	defer conn.Close()

	// initial snapshot on connect
	var first Snapshot
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "USB", first.Mode)

	require.NoError(t, srv.DeliverAI("AI:FA014074050;"))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var second Snapshot
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, uint64(14074000), second.FrequencyHz)
}

func listenerAddr(t *testing.T, srv *Server) string {
	t.Helper()
	require.NotNil(t, srv.listener)
	return srv.listener.Addr().String()
}
