// internal/config/normalize.go
package config

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	s := &cfg.Identify.Serial
	if s.Baud == 0 {
		s.Baud = 115200
	}
	if s.DataBits == 0 {
		s.DataBits = 8
	}
	if s.StopBits == 0 {
		s.StopBits = 1
	}
	if s.Parity == "" {
		s.Parity = "N"
	}
	if s.TimeoutMs == 0 {
		s.TimeoutMs = 2000
	}

	m := &cfg.Identify.Modbus
	if m.UnitID == 0 {
		m.UnitID = 1
	}
	if m.TimeoutMs == 0 {
		m.TimeoutMs = 1000
	}
}
