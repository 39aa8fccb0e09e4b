// internal/config/validate.go
package config

import "fmt"

// highestCV is the largest CV address any identification scheme touches.
const highestCV = 510

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	id := cfg.Identify

	// ------------------------------------------------------------
	// DRIVER SELECTION
	// ------------------------------------------------------------

	switch id.Driver {
	case DriverSerial:
		if id.Serial.Device == "" {
			return fmt.Errorf("config: serial.device is required for the serial driver")
		}
	case DriverModbus:
		if id.Modbus.Endpoint == "" {
			return fmt.Errorf("config: modbus.endpoint is required for the modbus driver")
		}
	case DriverMem:
		// Always valid; an empty CV map identifies as unknown.
	default:
		return fmt.Errorf("config: unknown driver %q", id.Driver)
	}

	// ------------------------------------------------------------
	// SERIAL SETTINGS (checked whenever provided)
	// ------------------------------------------------------------

	s := id.Serial
	if s.Baud < 0 {
		return fmt.Errorf("config: serial.baud must not be negative")
	}
	if s.DataBits != 0 && (s.DataBits < 5 || s.DataBits > 8) {
		return fmt.Errorf("config: serial.data_bits must be 5-8, got %d", s.DataBits)
	}
	if s.StopBits != 0 && s.StopBits != 1 && s.StopBits != 2 {
		return fmt.Errorf("config: serial.stop_bits must be 1 or 2, got %d", s.StopBits)
	}
	switch s.Parity {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("config: serial.parity must be N, E or O, got %q", s.Parity)
	}
	if s.TimeoutMs < 0 {
		return fmt.Errorf("config: serial.timeout_ms must not be negative")
	}
	if s.Retries < 0 {
		return fmt.Errorf("config: serial.retries must not be negative")
	}

	// ------------------------------------------------------------
	// MODBUS SETTINGS
	// ------------------------------------------------------------

	m := id.Modbus
	if m.TimeoutMs < 0 {
		return fmt.Errorf("config: modbus.timeout_ms must not be negative")
	}
	if int(m.BaseAddress)+highestCV > 0xFFFF {
		return fmt.Errorf("config: modbus.base_address %d leaves no room for cv addresses", m.BaseAddress)
	}

	// ------------------------------------------------------------
	// IN-MEMORY DECODER
	// ------------------------------------------------------------

	for cv := range id.Mem.CVs {
		if cv < 1 || cv > highestCV {
			return fmt.Errorf("config: mem.cvs address %d out of range 1-%d", cv, highestCV)
		}
	}

	return nil
}
