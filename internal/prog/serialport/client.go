// internal/prog/serialport/client.go
package serialport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/goburrow/serial"

	"github.com/trackworks/dccid/internal/identify"
)

// StationError is a non-OK reply code from the command station.
type StationError struct {
	Code uint8
}

func (e *StationError) Error() string {
	return fmt.Sprintf("serialport: station error %d", e.Code)
}

type Config struct {
	Device   string
	Baud     int
	DataBits int
	StopBits int
	Parity   string // N, E, O
	Timeout  time.Duration
	Retries  int // extra attempts after a timed-out exchange
}

// Client drives a service-mode CV programmer attached over a serial line.
// It serializes exchanges: the line protocol allows one outstanding
// request.
type Client struct {
	mu      sync.Mutex
	port    io.ReadWriteCloser
	rd      *bufio.Reader
	retries int
}

// New opens the serial device and returns a connected client.
func New(cfg Config) (*Client, error) {
	if cfg.Device == "" {
		return nil, errors.New("serialport: device required")
	}

	p, err := serial.Open(&serial.Config{
		Address:  cfg.Device,
		BaudRate: cfg.Baud,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return &Client{port: p, rd: bufio.NewReader(p), retries: cfg.Retries}, nil
}

func (c *Client) Close() error {
	return c.port.Close()
}

// ---- identify.Port interface ----

func (c *Client) ReadCV(ctx context.Context, cv uint16) (uint8, error) {
	r, err := c.exchange(ctx, encodeRead(cv))
	if err != nil {
		return 0, err
	}
	switch r.kind {
	case 'V':
		return r.value, nil
	case 'N':
		return 0, identify.ErrCVAbsent
	case 'E':
		return 0, &StationError{Code: r.value}
	default:
		return 0, fmt.Errorf("serialport: unexpected reply %q to read", r.kind)
	}
}

func (c *Client) WriteCV(ctx context.Context, cv uint16, value uint8) error {
	r, err := c.exchange(ctx, encodeWrite(cv, value))
	if err != nil {
		return err
	}
	switch r.kind {
	case 'K':
		return nil
	case 'N':
		return identify.ErrCVAbsent
	case 'E':
		return &StationError{Code: r.value}
	default:
		return fmt.Errorf("serialport: unexpected reply %q to write", r.kind)
	}
}

// exchange performs one request/reply round trip, retrying timed-out
// attempts up to the configured count. The serial library reports a read
// timeout as a read error.
func (c *Client) exchange(ctx context.Context, req []byte) (reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var last error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return reply{}, err
		}
		if _, err := c.port.Write(req); err != nil {
			return reply{}, err
		}

		line, err := c.rd.ReadString('\r')
		if err != nil {
			last = err
			continue
		}
		return parseReply(line)
	}

	return reply{}, fmt.Errorf("serialport: no reply after %d attempts: %w", c.retries+1, last)
}
