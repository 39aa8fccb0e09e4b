// internal/identify/runner_test.go
package identify

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type writeOp struct {
	cv    uint16
	value uint8
}

// fakePort serves reads from per-CV value queues, which lets indexed
// schemes like QSI return different CV56 values across reads.
type fakePort struct {
	queues  map[uint16][]uint8
	absent  map[uint16]bool
	failCV  uint16
	failErr error

	reads  []uint16
	writes []writeOp
}

func (p *fakePort) ReadCV(_ context.Context, cv uint16) (uint8, error) {
	p.reads = append(p.reads, cv)

	if p.failErr != nil && cv == p.failCV {
		return 0, p.failErr
	}
	if p.absent[cv] {
		return 0, ErrCVAbsent
	}
	q := p.queues[cv]
	if len(q) == 0 {
		return 0, fmt.Errorf("fake port: no scripted value for cv %d", cv)
	}
	p.queues[cv] = q[1:]
	return q[0], nil
}

func (p *fakePort) WriteCV(_ context.Context, cv uint16, value uint8) error {
	p.writes = append(p.writes, writeOp{cv: cv, value: value})
	return nil
}

type recordingSink struct {
	progress []string
	results  []Result
}

func (s *recordingSink) Progress(msg string) { s.progress = append(s.progress, msg) }
func (s *recordingSink) Done(res Result)     { s.results = append(s.results, res) }

func queue(pairs map[uint16][]uint8) map[uint16][]uint8 {
	q := make(map[uint16][]uint8, len(pairs))
	for cv, vs := range pairs {
		q[cv] = append([]uint8(nil), vs...)
	}
	return q
}

func TestRunEsu(t *testing.T) {
	port := &fakePort{queues: queue(map[uint16][]uint8{
		8:   {151},
		7:   {255},
		261: {0x10},
		262: {0x00},
		263: {0x00},
		264: {0x00},
	})}
	sink := &recordingSink{}

	res, err := Run(context.Background(), port, sink)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.HasProductID || res.ProductID != 16 {
		t.Fatalf("product = (%d, %v), want (16, true)", res.ProductID, res.HasProductID)
	}

	// 6 reads + 2 writes, one progress line each, one completion.
	if len(sink.progress) != 8 {
		t.Fatalf("progress count = %d, want 8", len(sink.progress))
	}
	if len(sink.results) != 1 {
		t.Fatalf("Done called %d times, want 1", len(sink.results))
	}
	if len(port.writes) != 2 || port.writes[0] != (writeOp{31, 0}) || port.writes[1] != (writeOp{32, 255}) {
		t.Fatalf("writes = %v", port.writes)
	}
}

func TestRunQsiIndexedReads(t *testing.T) {
	port := &fakePort{queues: queue(map[uint16][]uint8{
		8:  {113},
		7:  {2},
		56: {0x12, 0x34}, // high byte first, then low after the SI write
	})}

	res, err := Run(context.Background(), port, &recordingSink{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ProductID != 0x1234 {
		t.Fatalf("product id = %#x, want 0x1234", res.ProductID)
	}

	wantWrites := []writeOp{{49, 254}, {50, 4}, {50, 5}}
	if len(port.writes) != len(wantWrites) {
		t.Fatalf("writes = %v, want %v", port.writes, wantWrites)
	}
	for i, w := range wantWrites {
		if port.writes[i] != w {
			t.Fatalf("write %d = %v, want %v", i, port.writes[i], w)
		}
	}
}

func TestRunDoehlerAbsent(t *testing.T) {
	port := &fakePort{
		queues: queue(map[uint16][]uint8{8: {97}, 7: {3}}),
		absent: map[uint16]bool{261: true},
	}
	sink := &recordingSink{}

	res, err := Run(context.Background(), port, sink)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.HasProductID {
		t.Fatalf("absent CV261 must not yield a product id")
	}
	if res.Manufacturer != Doehler {
		t.Fatalf("manufacturer = %v, want Doehler", res.Manufacturer)
	}
	if len(sink.results) != 1 {
		t.Fatalf("Done called %d times, want 1", len(sink.results))
	}
}

func TestRunRequiredFailureAborts(t *testing.T) {
	boom := errors.New("track short")
	port := &fakePort{
		queues:  queue(map[uint16][]uint8{8: {145}, 7: {1}}),
		failCV:  250,
		failErr: boom,
	}
	sink := &recordingSink{}

	_, err := Run(context.Background(), port, sink)
	var rae *RegisterAccessError
	if !errors.As(err, &rae) {
		t.Fatalf("error = %v, want *RegisterAccessError", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("underlying cause not preserved: %v", err)
	}
	if len(sink.results) != 0 {
		t.Fatalf("Done must not be called on an aborted run")
	}
}

func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	port := &fakePort{queues: queue(map[uint16][]uint8{8: {145}})}
	if _, err := Run(ctx, port, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if len(port.reads) != 0 {
		t.Fatalf("no operation may be issued after cancellation")
	}
}

func TestRunNilPort(t *testing.T) {
	if _, err := Run(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error for nil port")
	}
}
