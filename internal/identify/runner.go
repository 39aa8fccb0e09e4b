// internal/identify/runner.go
package identify

import (
	"context"
	"errors"
	"fmt"
)

// Run drives a fresh identification session against port, delivering
// progress and the final result to sink. One register operation is in
// flight at a time; outcomes are fed back to the machine in issue order.
//
// A failed required operation aborts the run with a *RegisterAccessError;
// sink.Done is not called in that case. Cancelling ctx stops the run
// between operations.
func Run(ctx context.Context, port Port, sink Sink) (Result, error) {
	if port == nil {
		return Result{}, errors.New("identify: port required")
	}
	if sink == nil {
		sink = nopSink{}
	}

	m := NewMachine()
	act := m.Start()

	for {
		if act.Kind == ActionComplete {
			sink.Done(act.Result)
			return act.Result, nil
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		sink.Progress(act.Status)

		var out Outcome
		switch act.Kind {
		case ActionRead:
			v, err := port.ReadCV(ctx, act.CV)
			switch {
			case err == nil:
				out = Value(v)
			case errors.Is(err, ErrCVAbsent):
				out = Absent()
			default:
				out = Failure(err)
			}
		case ActionWrite:
			if err := port.WriteCV(ctx, act.CV, act.Value); err != nil {
				out = Failure(err)
			} else {
				out = Value(0) // write acks carry no data
			}
		default:
			return Result{}, fmt.Errorf("identify: unexpected action kind %d", act.Kind)
		}

		next, err := m.Advance(out)
		if err != nil {
			return Result{}, err
		}
		act = next
	}
}

type nopSink struct{}

func (nopSink) Progress(string) {}
func (nopSink) Done(Result)     {}
