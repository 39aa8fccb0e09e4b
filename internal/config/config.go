// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Register access port drivers.
const (
	DriverSerial = "serial"
	DriverModbus = "modbus"
	DriverMem    = "mem"
)

type Config struct {
	Identify IdentifyConfig `yaml:"identify"`
}

type IdentifyConfig struct {
	Driver  string        `yaml:"driver"` // serial | modbus | mem
	Serial  SerialConfig  `yaml:"serial"`
	Modbus  ModbusConfig  `yaml:"modbus"`
	Mem     MemConfig     `yaml:"mem"`
	History HistoryConfig `yaml:"history"`
}

// ---- SERIAL PORT ----

type SerialConfig struct {
	Device    string `yaml:"device"`
	Baud      int    `yaml:"baud"`
	DataBits  int    `yaml:"data_bits"`
	StopBits  int    `yaml:"stop_bits"`
	Parity    string `yaml:"parity"` // N, E, O
	TimeoutMs int    `yaml:"timeout_ms"`
	Retries   int    `yaml:"retries"` // extra attempts after a timed-out exchange
}

// ---- MODBUS BENCH BRIDGE ----

type ModbusConfig struct {
	Endpoint    string `yaml:"endpoint"`
	UnitID      uint8  `yaml:"unit_id"`
	BaseAddress uint16 `yaml:"base_address"` // CV n lives at holding register base+n
	TimeoutMs   int    `yaml:"timeout_ms"`
}

// ---- IN-MEMORY DECODER ----

type MemConfig struct {
	CVs map[uint16]uint8 `yaml:"cvs"`
}

// ---- HISTORY JOURNAL ----

type HistoryConfig struct {
	Path string `yaml:"path"` // empty disables the journal
}

// Load reads and parses a YAML configuration file. It performs no
// validation; call Validate and Normalize afterwards.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
