// internal/identify/script.go
package identify

// sequencer is one manufacturer's sub-protocol: a small state machine that
// yields the next register operation for each value received. Each variant
// owns its own progress index and collected bytes, so byte-order semantics
// stay next to the formula that consumes them.
type sequencer interface {
	// start returns the branch's first register operation.
	start() Action

	// next consumes the value produced by the previous operation and
	// returns the following action. Values of write acks are ignored.
	next(value uint8) Action
}

// scriptStep is one entry in a fixed operation list.
type scriptStep struct {
	write    bool
	cv       uint16
	value    uint8 // write value
	optional bool
	status   string
}

// scriptSequencer walks a fixed operation list and hands the collected read
// values, in read order, to a combination formula at the end. It covers
// every manufacturer whose sequence does not branch on values read
// mid-protocol.
type scriptSequencer struct {
	steps   []scriptStep
	combine func(vals []uint8) uint32

	idx  int
	vals []uint8
}

func (s *scriptSequencer) start() Action {
	return stepAction(s.steps[0])
}

func (s *scriptSequencer) next(v uint8) Action {
	if !s.steps[s.idx].write {
		s.vals = append(s.vals, v)
	}
	s.idx++
	if s.idx < len(s.steps) {
		return stepAction(s.steps[s.idx])
	}
	return productAction(s.combine(s.vals))
}

func stepAction(st scriptStep) Action {
	if st.write {
		return Action{Kind: ActionWrite, CV: st.cv, Value: st.value, Status: st.status}
	}
	return Action{Kind: ActionRead, CV: st.cv, Optional: st.optional, Status: st.status}
}

// productAction finishes a branch with a computed product identifier.
// The machine stamps the manufacturer and model fields afterwards.
func productAction(id uint32) Action {
	return Action{Kind: ActionComplete, Result: Result{ProductID: id, HasProductID: true}}
}

// noProductAction finishes a branch without a product identifier.
func noProductAction() Action {
	return Action{Kind: ActionComplete}
}
