// internal/prog/builder.go
package prog

import (
	"fmt"
	"time"

	"github.com/trackworks/dccid/internal/config"
	"github.com/trackworks/dccid/internal/identify"
	"github.com/trackworks/dccid/internal/prog/memport"
	"github.com/trackworks/dccid/internal/prog/modbusport"
	"github.com/trackworks/dccid/internal/prog/serialport"
)

// Build constructs the register access port selected by cfg and returns it
// together with its closer. Fail fast: a port that cannot open is a
// startup error, not something to retry here.
func Build(cfg config.IdentifyConfig) (identify.Port, func() error, error) {
	switch cfg.Driver {
	case config.DriverSerial:
		c, err := serialport.New(serialport.Config{
			Device:   cfg.Serial.Device,
			Baud:     cfg.Serial.Baud,
			DataBits: cfg.Serial.DataBits,
			StopBits: cfg.Serial.StopBits,
			Parity:   cfg.Serial.Parity,
			Timeout:  time.Duration(cfg.Serial.TimeoutMs) * time.Millisecond,
			Retries:  cfg.Serial.Retries,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil

	case config.DriverModbus:
		c, err := modbusport.New(modbusport.Config{
			Endpoint:    cfg.Modbus.Endpoint,
			UnitID:      cfg.Modbus.UnitID,
			BaseAddress: cfg.Modbus.BaseAddress,
			Timeout:     time.Duration(cfg.Modbus.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil

	case config.DriverMem:
		d := memport.New(cfg.Mem.CVs)
		return d, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("prog: unknown driver %q", cfg.Driver)
	}
}
