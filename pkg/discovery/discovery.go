// Package discovery implements a UDP responder so clients on the local
// network can find a running daemon without knowing its address.
package discovery

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/logging"
)

// Port is the UDP port the discovery responder listens on.
const Port = 4534

const (
	discoverRequest     = "FTX1-DISCOVER"
	serverResponsePrefix = "FTX1-SERVER"
)

// Server answers FTX1-DISCOVER broadcasts with FTX1-SERVER|ip|catPort|
// audioPort|rigModel|callsign so LAN clients can locate this daemon.
type Server struct {
	catPort   int
	audioPort int
	rigModel  string
	callsign  string
	log       *logging.Logger

	conn *net.UDPConn

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// New builds a discovery responder. audioPort is 0 if audio streaming is
// disabled.
func New(catPort, audioPort int, rigModel, callsign string, log *logging.Logger) *Server {
	if rigModel == "" {
		rigModel = "FTX-1"
	}
	if log == nil {
		log = logging.GetGlobalLogger()
	}
	return &Server{
		catPort:   catPort,
		audioPort: audioPort,
		rigModel:  rigModel,
		callsign:  callsign,
		log:       log,
		done:      make(chan struct{}),
	}
}

// Start binds the discovery UDP socket and begins answering requests in
// the background.
func (s *Server) Start() error {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: Port})
	if err != nil {
		return err
	}
	s.conn = conn

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.log.Infof("discovery", "listening on UDP port %d", Port)
	go s.listenLoop()
	return nil
}

// Stop closes the socket and waits for the listen loop to exit.
func (s *Server) Stop() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if s.conn != nil {
		s.conn.Close()
	}
	<-s.done
}

func (s *Server) listenLoop() {
	defer close(s.done)

	buf := make([]byte, 256)
	for {
		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return
			}
			continue
		}

		message := strings.TrimSpace(string(buf[:n]))
		if message != discoverRequest {
			continue
		}

		s.log.Debugf("discovery", "request from %s", addr)
		s.sendResponse(addr)
	}
}

func (s *Server) sendResponse(addr *net.UDPAddr) {
	localIP, err := localIPAddress()
	if err != nil {
		s.log.Warnf("discovery", "could not determine local IP: %v", err)
		return
	}

	response := fmt.Sprintf("%s|%s|%d|%d|%s|%s",
		serverResponsePrefix, localIP, s.catPort, s.audioPort, s.rigModel, s.callsign)

	if _, err := s.conn.WriteToUDP([]byte(response), addr); err != nil {
		s.log.Warnf("discovery", "failed to send discovery response: %v", err)
		return
	}
	s.log.Debugf("discovery", "sent discovery response: %s", response)
}

// localIPAddress returns the first non-loopback IPv4 address on an active
// interface, the Go equivalent of NetworkUtils.getLocalIPAddress.
func localIPAddress() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String(), nil
		}
	}
	return "", fmt.Errorf("discovery: no non-loopback IPv4 address found")
}
