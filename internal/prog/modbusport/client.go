// internal/prog/modbusport/client.go
package modbusport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/trackworks/dccid/internal/identify"
)

// Client talks to a bench rig that bridges decoder CVs into Modbus holding
// registers: CV n lives at holding register base+n. A rig signals an
// unimplemented CV with an illegal-data-address exception, which maps onto
// the absent-CV sentinel.
type Client struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
	base    uint16
}

type Config struct {
	Endpoint    string
	UnitID      uint8
	BaseAddress uint16
	Timeout     time.Duration
}

// New creates a connected Modbus TCP client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbusport: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
		base:    cfg.BaseAddress,
	}, nil
}

func (c *Client) Close() error {
	return c.handler.Close()
}

// ---- identify.Port interface ----

func (c *Client) ReadCV(ctx context.Context, cv uint16) (uint8, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.client.ReadHoldingRegisters(c.base+cv, 1)
	if err != nil {
		return 0, mapError(err)
	}
	if len(data) != 2 {
		return 0, fmt.Errorf("modbusport: short register payload (%d bytes)", len(data))
	}

	reg := uint16(data[0])<<8 | uint16(data[1])
	if reg > 0xFF {
		return 0, fmt.Errorf("modbusport: register %d value %d exceeds cv range", c.base+cv, reg)
	}
	return uint8(reg), nil
}

func (c *Client) WriteCV(ctx context.Context, cv uint16, value uint8) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.client.WriteSingleRegister(c.base+cv, uint16(value)); err != nil {
		return mapError(err)
	}
	return nil
}

// mapError converts an illegal-data-address exception into the absent-CV
// sentinel the identify contract expects; everything else passes through.
func mapError(err error) error {
	var me *modbus.ModbusError
	if errors.As(err, &me) && me.ExceptionCode == modbus.ExceptionCodeIllegalDataAddress {
		return identify.ErrCVAbsent
	}
	return err
}
