// internal/identify/outcome.go
package identify

// OutcomeKind discriminates the three results a register operation can have.
type OutcomeKind uint8

const (
	// OutcomeValue carries the byte read (or a zero ack for writes).
	OutcomeValue OutcomeKind = iota

	// OutcomeAbsent means the decoder positively reported that the CV is
	// not implemented. Only legal for reads marked optional.
	OutcomeAbsent

	// OutcomeFailure means the register operation itself failed.
	OutcomeFailure
)

// Outcome is the result of the previously issued register operation.
// Plain data, no behavior.
type Outcome struct {
	Kind  OutcomeKind
	Value uint8
	Err   error // set for OutcomeFailure
}

// Value wraps a successfully read byte.
func Value(v uint8) Outcome { return Outcome{Kind: OutcomeValue, Value: v} }

// Absent reports an unimplemented CV.
func Absent() Outcome { return Outcome{Kind: OutcomeAbsent} }

// Failure reports a failed register operation.
func Failure(err error) Outcome { return Outcome{Kind: OutcomeFailure, Err: err} }

// ActionKind discriminates what the machine wants done next.
type ActionKind uint8

const (
	ActionRead ActionKind = iota
	ActionWrite
	ActionComplete
)

// Action is the machine's instruction to the caller: issue a register
// operation, or deliver the completed result.
type Action struct {
	Kind ActionKind

	// CV and Value describe the register operation. Value is only
	// meaningful for writes.
	CV    uint16
	Value uint8

	// Optional marks a read that the decoder firmware may legitimately
	// not implement. The port may answer such a read with CV-absent.
	Optional bool

	// Status is advisory progress text, to be surfaced before the
	// operation is performed. It carries no protocol meaning.
	Status string

	// Result is set when Kind is ActionComplete.
	Result Result
}

// Result is the identification triple. ProductID is only meaningful when
// HasProductID is true; absence of a product identifier is a valid result,
// not an error.
type Result struct {
	ManufacturerCode uint8
	Manufacturer     Manufacturer
	ModelCode        uint8
	ProductID        uint32
	HasProductID     bool
}
