package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/config"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/logging"
)

var (
	configPath = flag.String("config", "config.yaml", "Configuration file path")
	version    = flag.Bool("version", false, "Show version information")

	device     = flag.String("device", "", "Serial device path (overrides config)")
	baud       = flag.Int("baud", 0, "Serial baud rate (overrides config)")
	rigctlPort = flag.Int("rigctl-port", 0, "Rigctl TCP port (overrides config)")
	audioPort  = flag.Int("audio-port", 0, "Audio TCP port (overrides config)")
	verbose    = flag.Bool("verbose", false, "Enable debug logging and CAT trace lines")
)

const (
	Version = "0.1.0-dev"
	Build   = "development"
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("ftx1hamlibd version %s (%s)\n", Version, Build)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	applyFlagOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logging.InitGlobalLogger(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseGlobalLogger()

	logging.Info("main", fmt.Sprintf("ftx1hamlibd version %s starting...", Version))
	logging.Info("main", fmt.Sprintf("Station: %s (%s)", cfg.Station.Callsign, cfg.Station.Grid))
	logging.Info("main", fmt.Sprintf("Radio: CAT on %s at %d baud", cfg.Serial.Device, cfg.Serial.BaudRate))
	logging.Info("main", fmt.Sprintf("Rigctl: %s:%d", cfg.Rigctl.BindAddress, cfg.Rigctl.Port))
	logging.Info("main", fmt.Sprintf("Audio: %s:%d", cfg.Audio.BindAddress, cfg.Audio.Port))

	daemon, err := NewDaemon(cfg)
	if err != nil {
		logging.Error("main", fmt.Sprintf("Failed to create daemon: %v", err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := daemon.Start(); err != nil {
		logging.Error("main", fmt.Sprintf("Failed to start daemon: %v", err))
		os.Exit(1)
	}

	logging.Info("main", "ftx1hamlibd started successfully")

	<-sigChan
	logging.Info("main", "Shutting down...")

	if err := daemon.Stop(); err != nil {
		logging.Error("main", fmt.Sprintf("Error during shutdown: %v", err))
	}

	logging.Info("main", "ftx1hamlibd stopped")
}

// applyFlagOverrides layers the minimal CLI surface (spec.md §6.4) on top
// of whatever config.yaml already set.
func applyFlagOverrides(cfg *config.Config) {
	if *device != "" {
		cfg.Serial.Device = *device
	}
	if *baud != 0 {
		cfg.Serial.BaudRate = *baud
	}
	if *rigctlPort != 0 {
		cfg.Rigctl.Port = *rigctlPort
	}
	if *audioPort != 0 {
		cfg.Audio.Port = *audioPort
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
}
