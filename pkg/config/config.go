package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config represents the ftx1hamlibd configuration
type Config struct {
	Station struct {
		Callsign string `yaml:"callsign"`
		Grid     string `yaml:"grid"`
	} `yaml:"station"`

	Serial struct {
		Device         string `yaml:"device"`
		BaudRate       int    `yaml:"baud_rate"`
		ResponseMs     int    `yaml:"response_timeout_ms"`
	} `yaml:"serial"`

	Rigctl struct {
		BindAddress string `yaml:"bind_address"`
		Port        int    `yaml:"port"`
		ForwardAI   bool   `yaml:"forward_ai"`
	} `yaml:"rigctl"`

	Audio struct {
		BindAddress   string `yaml:"bind_address"`
		Port          int    `yaml:"port"`
		TargetLatency int    `yaml:"target_latency_ms"`
		BufferMs      int    `yaml:"buffer_ms"`
		HeartbeatSec  int    `yaml:"heartbeat_interval_sec"`
		TimeoutSec    int    `yaml:"heartbeat_timeout_sec"`
	} `yaml:"audio"`

	Discovery struct {
		Enabled  bool   `yaml:"enabled"`
		RigModel string `yaml:"rig_model"`
	} `yaml:"discovery"`

	Status struct {
		Enabled     bool   `yaml:"enabled"`
		BindAddress string `yaml:"bind_address"`
		Port        int    `yaml:"port"`
	} `yaml:"status"`

	Storage struct {
		DatabasePath string `yaml:"database_path"`
	} `yaml:"storage"`

	Logging struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		Console    bool   `yaml:"console"`
		Structured bool   `yaml:"structured"`
		MaxSize    int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = 38400
	}
	if c.Serial.ResponseMs == 0 {
		c.Serial.ResponseMs = 500
	}
	if c.Rigctl.BindAddress == "" {
		c.Rigctl.BindAddress = "0.0.0.0"
	}
	if c.Rigctl.Port == 0 {
		c.Rigctl.Port = 4532
	}
	if c.Audio.BindAddress == "" {
		c.Audio.BindAddress = "0.0.0.0"
	}
	if c.Audio.Port == 0 {
		c.Audio.Port = 4533
	}
	if c.Audio.TargetLatency == 0 {
		c.Audio.TargetLatency = 100
	}
	if c.Audio.BufferMs == 0 {
		c.Audio.BufferMs = 1000
	}
	if c.Audio.HeartbeatSec == 0 {
		c.Audio.HeartbeatSec = 5
	}
	if c.Audio.TimeoutSec == 0 {
		c.Audio.TimeoutSec = 20
	}
	if c.Discovery.RigModel == "" {
		c.Discovery.RigModel = "FTX-1"
	}
	if c.Status.BindAddress == "" {
		c.Status.BindAddress = "127.0.0.1"
	}
	if c.Status.Port == 0 {
		c.Status.Port = 8080
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "ftx1hamlibd.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSize == 0 {
		c.Logging.MaxSize = 100
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 5
	}
	if c.Logging.MaxAge == 0 {
		c.Logging.MaxAge = 30
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Station.Callsign == "" {
		return fmt.Errorf("station callsign is required")
	}
	if c.Serial.Device == "" {
		return fmt.Errorf("serial device is required")
	}
	return nil
}
