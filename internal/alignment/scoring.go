// Package alignment provides pairwise sequence alignment algorithms.
//
// This package implements Smith-Waterman (local) and Needleman-Wunsch (global)
// alignment with affine gap penalties over the BLOSUM62 substitution matrix,
// producing an operation trace that downstream metrics can replay.
package alignment

import (
	"fmt"
	"strings"

	"github.com/biogo/biogo/align/matrix"
	"github.com/biogo/biogo/alphabet"
)

// Gap penalties applied by every alignment. A gap run of length k costs
// GapOpen + (k-1)*GapExtend.
const (
	GapOpen   = -5
	GapExtend = -1
)

// Mode selects the alignment algorithm.
type Mode int

const (
	// Global represents Needleman-Wunsch global alignment
	Global Mode = iota
	// Local represents Smith-Waterman local alignment
	Local
)

func (m Mode) String() string {
	switch m {
	case Global:
		return "global"
	case Local:
		return "local"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "global":
		return Global, nil
	case "local":
		return Local, nil
	default:
		return 0, &InvalidModeError{Mode: s}
	}
}

// Scoring is the substitution model: a symmetric residue-pair lookup plus
// the fixed affine gap penalties.
//
// A Scoring is immutable once built and may be shared between goroutines.
type Scoring struct {
	GapOpenPenalty   int
	GapExtendPenalty int

	matrix [][]int
	index  [256]int
}

// BLOSUM62 returns the amino-acid scoring model used by every alignment.
func BLOSUM62() *Scoring {
	s := &Scoring{
		GapOpenPenalty:   GapOpen,
		GapExtendPenalty: GapExtend,
		matrix:           matrix.BLOSUM62,
	}
	gap := alphabet.Protein.Gap()
	for b := 0; b < 256; b++ {
		s.index[b] = -1
		l := alphabet.Letter(b)
		if l == gap {
			continue
		}
		i := alphabet.Protein.IndexOf(l)
		if i < 0 {
			// the protein alphabet is stored in one case only
			switch {
			case l >= 'a' && l <= 'z':
				i = alphabet.Protein.IndexOf(l - 'a' + 'A')
			case l >= 'A' && l <= 'Z':
				i = alphabet.Protein.IndexOf(l - 'A' + 'a')
			}
		}
		if i < 0 || i >= len(s.matrix) || len(s.matrix[i]) != len(s.matrix) {
			continue
		}
		s.index[b] = i
	}
	return s
}

// Covers reports whether a residue can be scored.
func (s *Scoring) Covers(a byte) bool {
	return s.index[a] >= 0
}

// Score returns the substitution score for a residue pair.
func (s *Scoring) Score(a, b byte) (int, error) {
	ia, ib := s.index[a], s.index[b]
	if ia < 0 {
		return 0, &AlphabetError{Position: -1, Letter: a}
	}
	if ib < 0 {
		return 0, &AlphabetError{Position: -1, Letter: b}
	}
	return s.matrix[ia][ib], nil
}

// SelfScore returns the score of a residue against itself.
func (s *Scoring) SelfScore(a byte) (int, error) {
	return s.Score(a, a)
}

// Validate checks that every residue in seq can be scored.
func (s *Scoring) Validate(seq []byte) error {
	for i, b := range seq {
		if s.index[b] < 0 {
			return &AlphabetError{Position: i, Letter: b}
		}
	}
	return nil
}

// score is the unchecked lookup used inside the DP kernels, which validate
// their inputs up front.
func (s *Scoring) score(a, b byte) int {
	return s.matrix[s.index[a]][s.index[b]]
}

// String returns a string representation of the scoring model.
func (s *Scoring) String() string {
	return fmt.Sprintf("Scoring { matrix: BLOSUM62, gap_open: %d, gap_extend: %d }",
		s.GapOpenPenalty, s.GapExtendPenalty)
}
