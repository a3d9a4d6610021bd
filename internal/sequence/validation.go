package sequence

import (
	"fmt"

	"github.com/aria-lang/compseq-go/internal/alignment"
)

// SequenceError is the base error type for sequence operations.
type SequenceError interface {
	error
	IsSequenceError()
}

// EmptyIDError is returned when a sequence is given an empty identifier.
type EmptyIDError struct{}

func (e *EmptyIDError) Error() string {
	return "ID cannot be empty"
}

func (e *EmptyIDError) IsSequenceError() {}

// InvalidResidueError is returned when a residue is not covered by the
// scoring matrix.
type InvalidResidueError struct {
	Position int
	Found    byte
}

func (e *InvalidResidueError) Error() string {
	return fmt.Sprintf("invalid residue '%c' at position %d", e.Found, e.Position)
}

func (e *InvalidResidueError) IsSequenceError() {}

// Validate checks that every residue can be scored by scoring. A nil
// scoring means BLOSUM62.
func Validate(residues []byte, scoring *alignment.Scoring) error {
	if scoring == nil {
		scoring = alignment.BLOSUM62()
	}
	for i, b := range residues {
		if !scoring.Covers(b) {
			return &InvalidResidueError{Position: i, Found: b}
		}
	}
	return nil
}

// IsValidResidue checks if a character can be scored. A nil scoring means
// BLOSUM62.
func IsValidResidue(c byte, scoring *alignment.Scoring) bool {
	if scoring == nil {
		scoring = alignment.BLOSUM62()
	}
	return scoring.Covers(c)
}
