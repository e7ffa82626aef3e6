package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/aibus"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/audiobridge"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/catlink"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/config"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/discovery"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/hamlib"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/logging"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/radiomodel"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/rigctld"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/status"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/storage"
)

// Daemon owns every long-lived component of ftx1hamlibd: the CAT link to
// the radio, the translator that fronts it, the rigctl and audio TCP
// servers, and the optional discovery/status surfaces. It wires them the
// way daemon.go wired js8d's CoreEngine, socket client, and web server.
type Daemon struct {
	config *config.Config
	log    *logging.Logger

	link  *catlink.Link
	model *radiomodel.Model
	store *storage.Store
	bus   *aibus.Bus

	rigctl *rigctld.Server
	audio  *audiobridge.AudioServer

	discovery *discovery.Server
	status    *status.Server

	startedAt time.Time
	mu        sync.Mutex
}

// NewDaemon constructs a Daemon without starting anything.
func NewDaemon(cfg *config.Config) (*Daemon, error) {
	return &Daemon{
		config: cfg,
		log:    logging.GetGlobalLogger(),
	}, nil
}

// Start opens the serial link, detects the head variant, opens storage,
// and brings up rigctld, the audio bridge, and the optional discovery and
// status surfaces. It mirrors js8d's start order: core data path first,
// optional surfaces last.
func (d *Daemon) Start() error {
	d.startedAt = time.Now()

	link, err := catlink.Open(d.config.Serial.Device, d.config.Serial.BaudRate,
		time.Duration(d.config.Serial.ResponseMs)*time.Millisecond, d.log)
	if err != nil {
		return fmt.Errorf("failed to open CAT link: %w", err)
	}
	d.link = link

	model := radiomodel.New(link)
	if err := model.Detect(); err != nil {
		d.link.Close()
		return fmt.Errorf("failed to detect radio head: %w", err)
	}
	d.model = model
	d.log.Infof("daemon", "detected head: %s", model.HeadType())

	store, err := storage.New(d.config.Storage.DatabasePath, d.log)
	if err != nil {
		d.link.Close()
		return fmt.Errorf("failed to open storage: %w", err)
	}
	d.store = store

	d.bus = aibus.New(d.log)
	if d.config.Rigctl.ForwardAI {
		d.link.SubscribeAI(d.bus.Publish)
	}

	translator := hamlib.New(d.model, d.store)
	d.rigctl = rigctld.New(translator, d.bus, d.log)
	rigctlAddr := fmt.Sprintf("%s:%d", d.config.Rigctl.BindAddress, d.config.Rigctl.Port)
	if err := d.rigctl.Start(rigctlAddr); err != nil {
		d.store.Close()
		d.link.Close()
		return fmt.Errorf("failed to start rigctld: %w", err)
	}

	audioCfg := audiobridge.Config{
		HeartbeatInterval: time.Duration(d.config.Audio.HeartbeatSec) * time.Second,
		HeartbeatMisses:   heartbeatMisses(d.config.Audio.HeartbeatSec, d.config.Audio.TimeoutSec),
		BufferMs:          d.config.Audio.BufferMs,
		TargetLatencyMs:   d.config.Audio.TargetLatency,
	}
	d.audio = audiobridge.New(audioCfg, nil, nil, d.log)
	audioAddr := fmt.Sprintf("%s:%d", d.config.Audio.BindAddress, d.config.Audio.Port)
	if err := d.audio.Start(audioAddr); err != nil {
		return fmt.Errorf("failed to start audio bridge: %w", err)
	}

	if d.config.Discovery.Enabled {
		d.discovery = discovery.New(d.config.Rigctl.Port, d.config.Audio.Port,
			d.config.Discovery.RigModel, d.config.Station.Callsign, d.log)
		if err := d.discovery.Start(); err != nil {
			d.log.Warnf("daemon", "discovery server failed to start: %v", err)
			d.discovery = nil
		}
	}

	if d.config.Status.Enabled {
		d.status = status.New(d.buildSnapshot, d.log)
		statusAddr := fmt.Sprintf("%s:%d", d.config.Status.BindAddress, d.config.Status.Port)
		if err := d.status.Start(statusAddr); err != nil {
			d.log.Warnf("daemon", "status server failed to start: %v", err)
			d.status = nil
		} else {
			d.bus.Subscribe(d.status)
		}
	}

	d.store.LogSessionEvent("daemon_start", fmt.Sprintf("head=%s", d.model.HeadType()))
	return nil
}

// heartbeatMisses derives audiobridge's miss-count knob from the config's
// interval/timeout pair, since the config file only names the two seconds
// values rather than a miss count directly.
func heartbeatMisses(intervalSec, timeoutSec int) int {
	if intervalSec <= 0 {
		return 0
	}
	misses := timeoutSec / intervalSec
	if misses < 1 {
		misses = 1
	}
	return misses
}

// buildSnapshot reads current radio and session state for pkg/status. It
// calls the Model directly without taking rigctld's rigLock.
func (d *Daemon) buildSnapshot() status.Snapshot {
	var freq uint64
	var mode radiomodel.Mode
	var vfo radiomodel.VFO
	var ptt bool

	if d.model != nil {
		vfo, _ = d.model.GetActiveVFO()
		freq, _ = d.model.GetFrequency(vfo)
		mode, _ = d.model.GetMode(vfo)
		ptt, _ = d.model.GetPTT()
	}

	clientCount := 0
	if d.rigctl != nil {
		clientCount = d.rigctl.ClientCount()
	}
	audioActive := false
	if d.audio != nil {
		audioActive = d.audio.IsSessionActive()
	}

	vfoName := "A"
	if vfo == radiomodel.VFOB {
		vfoName = "B"
	}

	headType := ""
	if d.model != nil {
		headType = d.model.HeadType().String()
	}

	return status.Snapshot{
		HeadType:           headType,
		ActiveVFO:          vfoName,
		FrequencyHz:        freq,
		Mode:               string(mode),
		PTT:                ptt,
		RigctlClientCount:  clientCount,
		AudioSessionActive: audioActive,
		UptimeSeconds:      time.Since(d.startedAt).Seconds(),
	}
}

// Stop shuts every component down in reverse-start order, giving each
// server the same close-listener-then-await-5s treatment its own Stop
// method already implements.
func (d *Daemon) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if d.store != nil {
		d.store.LogSessionEvent("daemon_stop", "")
	}

	if d.status != nil {
		if err := d.status.Stop(ctx); err != nil {
			d.log.Warnf("daemon", "status server stop: %v", err)
		}
	}
	if d.discovery != nil {
		d.discovery.Stop()
	}
	if d.audio != nil {
		if err := d.audio.Stop(ctx); err != nil {
			d.log.Warnf("daemon", "audio bridge stop: %v", err)
		}
	}
	if d.rigctl != nil {
		if err := d.rigctl.Stop(ctx); err != nil {
			d.log.Warnf("daemon", "rigctld stop: %v", err)
		}
	}
	if d.store != nil {
		d.store.Close()
	}
	if d.link != nil {
		d.link.Close()
	}
	return nil
}
