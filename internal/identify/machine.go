// internal/identify/machine.go
package identify

import (
	"errors"
	"fmt"
)

// Registers shared by every manufacturer.
const (
	cvManufacturer = 8
	cvModel        = 7
)

// RegisterAccessError reports a failed required register operation. The run
// is aborted: no Complete action is emitted after one of these.
type RegisterAccessError struct {
	CV  uint16
	Err error
}

func (e *RegisterAccessError) Error() string {
	return fmt.Sprintf("identify: cv %d access failed: %v", e.CV, e.Err)
}

func (e *RegisterAccessError) Unwrap() error { return e.Err }

// Machine is the decoder identification state machine. Start issues the
// manufacturer register read; every Advance consumes the outcome of the
// previously issued operation and returns the next action. The machine
// holds exactly one outstanding operation at a time and expects outcomes in
// issue order.
//
// A Machine is single-use. Identifying a second decoder means constructing
// a new one.
type Machine struct {
	step    int
	mfgCode uint8
	mfg     Manufacturer
	model   uint8

	seq             sequencer
	optionalPending bool
	pending         Action // operation whose outcome the next Advance consumes
	done            bool
}

func NewMachine() *Machine { return &Machine{} }

// Start issues the manufacturer register read.
func (m *Machine) Start() Action {
	m.step = 1
	m.pending = Action{Kind: ActionRead, CV: cvManufacturer, Status: "Read manufacturer ID CV 8"}
	return m.pending
}

// Advance consumes the outcome of the previously issued operation and
// returns the next action. A failed required operation yields a
// *RegisterAccessError and terminates the machine.
func (m *Machine) Advance(out Outcome) (Action, error) {
	if m.done {
		return Action{}, errors.New("identify: machine already complete")
	}
	if m.step == 0 {
		return Action{}, errors.New("identify: Advance called before Start")
	}

	switch out.Kind {
	case OutcomeFailure:
		m.done = true
		return Action{}, &RegisterAccessError{CV: m.pending.CV, Err: out.Err}
	case OutcomeAbsent:
		if !m.optionalPending {
			// Absent is only legal for reads marked optional.
			m.done = true
			return Action{}, &RegisterAccessError{CV: m.pending.CV, Err: ErrCVAbsent}
		}
		// Optional register missing: this branch completes without a
		// product identifier.
		return m.finish(noProductAction()), nil
	}

	// A concrete value clears any armed optional-read flag before the
	// next operation is issued.
	m.optionalPending = false
	m.step++

	var act Action
	switch m.step {
	case 2:
		m.mfgCode = out.Value
		m.mfg = ManufacturerForCode(out.Value)
		act = Action{Kind: ActionRead, CV: cvModel, Status: "Read model version CV 7"}
	case 3:
		m.model = out.Value
		m.seq = newSequencer(m.mfg, m.model)
		if m.seq == nil {
			// Unknown manufacturer, or a model this manufacturer's
			// scheme does not cover.
			return m.finish(noProductAction()), nil
		}
		act = m.seq.start()
	default:
		act = m.seq.next(out.Value)
	}

	if act.Kind == ActionComplete {
		return m.finish(act), nil
	}
	m.optionalPending = act.Kind == ActionRead && act.Optional
	m.pending = act
	return act, nil
}

// finish stamps the session identity onto a completion action and
// terminates the machine.
func (m *Machine) finish(act Action) Action {
	act.Result.ManufacturerCode = m.mfgCode
	act.Result.Manufacturer = m.mfg
	act.Result.ModelCode = m.model
	m.done = true
	return act
}
