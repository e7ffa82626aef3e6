package discovery

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServerResponse(t *testing.T) {
	response := "FTX1-SERVER|192.168.1.50|4532|4533|FTX-1|KJ5HST"
	parts := strings.Split(response, "|")
	require.Len(t, parts, 6)
	assert.Equal(t, serverResponsePrefix, parts[0])
	assert.Equal(t, "4532", parts[2])
	assert.Equal(t, "4533", parts[3])
}

func TestDiscoverySendsResponseToRequester(t *testing.T) {
	srv := New(4532, 4533, "FTX-1", "KJ5HST", nil)
	require.NoError(t, srv.Start())
	defer srv.Stop()

	client, err := net.DialUDP("udp", nil, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: Port})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Write([]byte(discoverRequest))
	require.NoError(t, err)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 256)
	n, err := client.Read(buf)
	require.NoError(t, err)

	response := string(buf[:n])
	assert.True(t, strings.HasPrefix(response, serverResponsePrefix+"|"))
	assert.Contains(t, response, "4532")
	assert.Contains(t, response, "4533")
}

func TestDiscoveryIgnoresUnknownMessages(t *testing.T) {
	srv := New(4532, 4533, "FTX-1", "", nil)
	require.NoError(t, srv.Start())
	defer srv.Stop()

	client, err := net.DialUDP("udp", nil, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: Port})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Write([]byte("NOT-A-DISCOVERY-REQUEST"))
	require.NoError(t, err)

	client.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	buf := make([]byte, 256)
	_, err = client.Read(buf)
	assert.Error(t, err)
}
