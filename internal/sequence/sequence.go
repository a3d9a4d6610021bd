// Package sequence provides residue sequences with validation against the
// scoring alphabet, and FASTA input.
package sequence

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/aria-lang/compseq-go/internal/alignment"
)

// Sequence is a named run of residues. Residues are stored upper-case.
type Sequence struct {
	ID          string
	Description string
	Residues    []byte
}

// New creates a sequence after normalising the residues and validating them
// against BLOSUM62. An empty sequence is valid.
func New(residues string) (*Sequence, error) {
	return NewWithScoring(residues, nil)
}

// NewWithScoring is New with an explicit scoring model for validation.
func NewWithScoring(residues string, scoring *alignment.Scoring) (*Sequence, error) {
	r := Upper([]byte(residues))
	if err := Validate(r, scoring); err != nil {
		return nil, err
	}
	return &Sequence{Residues: r}, nil
}

// WithID creates a new sequence with an identifier.
func WithID(residues, id string) (*Sequence, error) {
	if len(id) == 0 {
		return nil, &EmptyIDError{}
	}

	s, err := New(residues)
	if err != nil {
		return nil, err
	}

	s.ID = id
	return s, nil
}

// Len returns the length of the sequence.
func (s *Sequence) Len() int {
	return len(s.Residues)
}

// Subsequence returns residues [start, end) as a new sequence.
func (s *Sequence) Subsequence(start, end int) (*Sequence, error) {
	if start < 0 {
		return nil, fmt.Errorf("start index must be non-negative")
	}
	if end < start {
		return nil, fmt.Errorf("end must not be less than start")
	}
	if end > len(s.Residues) {
		return nil, fmt.Errorf("end must not exceed sequence length")
	}

	return &Sequence{
		ID:          s.ID,
		Description: s.Description,
		Residues:    append([]byte(nil), s.Residues[start:end]...),
	}, nil
}

// Reverse returns the reverse of the sequence.
func (s *Sequence) Reverse() *Sequence {
	n := len(s.Residues)
	r := make([]byte, n)
	for i, b := range s.Residues {
		r[n-1-i] = b
	}
	return &Sequence{ID: s.ID, Description: s.Description, Residues: r}
}

// ResidueCount is the number of occurrences of one residue.
type ResidueCount struct {
	Residue byte
	Count   int
}

// Composition returns residue counts, most frequent first. Residues with
// equal counts are in alphabetical order.
func (s *Sequence) Composition() []ResidueCount {
	var counts [256]int
	for _, b := range s.Residues {
		counts[b]++
	}

	comp := make([]ResidueCount, 0, 25)
	for b, c := range counts {
		if c > 0 {
			comp = append(comp, ResidueCount{Residue: byte(b), Count: c})
		}
	}
	sort.Slice(comp, func(i, j int) bool {
		if comp[i].Count != comp[j].Count {
			return comp[i].Count > comp[j].Count
		}
		return comp[i].Residue < comp[j].Residue
	})
	return comp
}

// FindMotifPositions finds all positions where a motif occurs, including
// overlapping occurrences.
func (s *Sequence) FindMotifPositions(motif string) ([]int, error) {
	if len(motif) == 0 {
		return nil, fmt.Errorf("motif cannot be empty")
	}

	m := Upper([]byte(motif))
	positions := make([]int, 0)

	for i := 0; i+len(m) <= len(s.Residues); i++ {
		if bytes.Equal(s.Residues[i:i+len(m)], m) {
			positions = append(positions, i)
		}
	}

	return positions, nil
}

// ToFASTA returns the sequence in FASTA format with lines of at most width
// residues. A width below 1 writes the sequence on one line.
func (s *Sequence) ToFASTA(width int) string {
	var buf bytes.Buffer
	buf.WriteByte('>')
	if s.ID != "" {
		buf.WriteString(s.ID)
		if s.Description != "" {
			buf.WriteByte(' ')
			buf.WriteString(s.Description)
		}
	} else {
		buf.WriteString("sequence")
	}
	buf.WriteByte('\n')

	if width < 1 {
		width = len(s.Residues)
	}
	for i := 0; i < len(s.Residues); i += width {
		end := i + width
		if end > len(s.Residues) {
			end = len(s.Residues)
		}
		buf.Write(s.Residues[i:end])
		buf.WriteByte('\n')
	}

	return buf.String()
}

// String returns a string representation of the sequence.
func (s *Sequence) String() string {
	if s.ID != "" {
		return fmt.Sprintf(">%s\n%s", s.ID, s.Residues)
	}
	return string(s.Residues)
}

// Equal reports whether two sequences have the same residues.
func (s *Sequence) Equal(other *Sequence) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(s.Residues, other.Residues)
}

// Upper upper-cases ASCII letters in place and returns the slice.
func Upper(r []byte) []byte {
	for i, b := range r {
		if b >= 'a' && b <= 'z' {
			r[i] = b - 'a' + 'A'
		}
	}
	return r
}
