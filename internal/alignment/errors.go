package alignment

import "fmt"

// InvalidModeError is returned when a mode name is neither "global" nor "local".
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid alignment mode %q: select either global or local", e.Mode)
}

// AlphabetError is returned when a residue is not covered by the scoring model.
// Position is -1 when the offending residue was looked up on its own.
type AlphabetError struct {
	Position int
	Letter   byte
}

func (e *AlphabetError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("residue '%c' (0x%02x) is not covered by the scoring matrix", e.Letter, e.Letter)
	}
	return fmt.Sprintf("residue '%c' (0x%02x) at position %d is not covered by the scoring matrix",
		e.Letter, e.Letter, e.Position)
}

// InvariantViolation reports an alignment whose operation trace does not
// agree with its offsets. It always indicates a bug in the engine or a
// hand-built alignment, never bad user input.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return "alignment invariant violated: " + e.Reason
}

func violationf(format string, args ...interface{}) error {
	return &InvariantViolation{Reason: fmt.Sprintf(format, args...)}
}
