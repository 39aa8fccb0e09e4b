// internal/prog/memport/memport.go
package memport

import (
	"context"
	"sync"

	"github.com/trackworks/dccid/internal/identify"
)

// Device is an in-memory decoder: a CV map behind a mutex. CVs not in the
// map behave as unimplemented. Useful for tests, demos and dry runs where
// no programming track is attached.
//
// Indexed CV schemes (ESU, QSI) that change a register's meaning through
// index writes are not emulated; reads always return the stored value.
type Device struct {
	mu  sync.Mutex
	cvs map[uint16]uint8
}

// New copies cvs into a fresh device.
func New(cvs map[uint16]uint8) *Device {
	m := make(map[uint16]uint8, len(cvs))
	for cv, v := range cvs {
		m[cv] = v
	}
	return &Device{cvs: m}
}

// ---- identify.Port interface ----

func (d *Device) ReadCV(ctx context.Context, cv uint16) (uint8, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	v, ok := d.cvs[cv]
	if !ok {
		return 0, identify.ErrCVAbsent
	}
	return v, nil
}

func (d *Device) WriteCV(ctx context.Context, cv uint16, value uint8) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.cvs[cv] = value
	return nil
}
