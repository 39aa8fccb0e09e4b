// internal/history/journal.go
package history

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/trackworks/dccid/internal/identify"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("history: cbor enc mode: %v", err))
	}
	decMode, err = cbor.DecOptions{
		IndefLength: cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("history: cbor dec mode: %v", err))
	}
}

// Record is one completed identification run.
type Record struct {
	RunID            string    `cbor:"run_id"`
	At               time.Time `cbor:"at"`
	ManufacturerCode uint8     `cbor:"mfg_code"`
	Manufacturer     string    `cbor:"mfg"`
	ModelCode        uint8     `cbor:"model"`
	ProductID        uint32    `cbor:"product_id,omitempty"`
	HasProductID     bool      `cbor:"has_product_id"`
}

// NewRecord stamps an identification result with a run id and timestamp.
func NewRecord(res identify.Result) Record {
	return Record{
		RunID:            uuid.NewString(),
		At:               time.Now().UTC(),
		ManufacturerCode: res.ManufacturerCode,
		Manufacturer:     res.Manufacturer.String(),
		ModelCode:        res.ModelCode,
		ProductID:        res.ProductID,
		HasProductID:     res.HasProductID,
	}
}

// Journal appends identification records to a CBOR stream on disk.
type Journal struct {
	mu     sync.Mutex
	file   *os.File
	enc    *cbor.Encoder
	closed bool
}

// Open opens the journal at path for appending, creating parent
// directories as needed.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: create journal dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("history: open journal: %w", err)
	}

	return &Journal{file: f, enc: encMode.NewEncoder(f)}, nil
}

// Append writes one record.
func (j *Journal) Append(rec Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return errors.New("history: journal closed")
	}
	if err := j.enc.Encode(rec); err != nil {
		return fmt.Errorf("history: append record: %w", err)
	}
	return nil
}

// Close is idempotent.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true
	return j.file.Close()
}

// ReadAll loads every record from the journal at path. A missing file is
// an empty journal, not an error.
func ReadAll(path string) ([]Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history: open journal: %w", err)
	}
	defer f.Close()

	var recs []Record
	dec := decMode.NewDecoder(f)
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return recs, nil
			}
			return nil, fmt.Errorf("history: decode record: %w", err)
		}
		recs = append(recs, rec)
	}
}
