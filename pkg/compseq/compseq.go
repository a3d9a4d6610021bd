// Package compseq provides a high-level API for pairwise protein alignment.
//
// Sequences are aligned globally or locally with affine gaps over BLOSUM62,
// and each alignment is summarised by percent identity and percent
// similarity.
//
// Example usage:
//
//	a, err := compseq.AlignString("LSPADKTNVK", "LSPADQTNVK", "global")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(a.CIGAR(), compseq.Identity(a))
//
//	seqs, err := compseq.ReadFASTA("proteins.fasta")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	results, err := compseq.AlignAll(ctx, seqs, compseq.PairOptions{Mode: compseq.Local})
package compseq

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"

	"github.com/aria-lang/compseq-go/internal/alignment"
	"github.com/aria-lang/compseq-go/internal/config"
	"github.com/aria-lang/compseq-go/internal/kmer"
	"github.com/aria-lang/compseq-go/internal/metrics"
	"github.com/aria-lang/compseq-go/internal/pairwise"
	"github.com/aria-lang/compseq-go/internal/sequence"
	"github.com/aria-lang/compseq-go/internal/stats"
)

// Re-export types for convenience
type (
	Alignment   = alignment.Alignment
	Mode        = alignment.Mode
	Op          = alignment.Op
	OpType      = alignment.OpType
	Scoring     = alignment.Scoring
	Sequence    = sequence.Sequence
	Metrics     = metrics.Result
	PairOptions = pairwise.Options
	PairResult  = pairwise.Result
	Summary     = stats.AlignmentSummary
	SetStats    = stats.SequenceSetStats
)

// Alignment modes
const (
	Global = alignment.Global
	Local  = alignment.Local
)

// ParseMode converts "global" or "local" into a Mode.
func ParseMode(s string) (Mode, error) {
	return alignment.ParseMode(s)
}

// BLOSUM62 returns the scoring model used by every alignment.
func BLOSUM62() *Scoring {
	return alignment.BLOSUM62()
}

// NewSequence creates a validated protein sequence.
func NewSequence(residues string) (*Sequence, error) {
	return sequence.New(residues)
}

// NewSequenceWithID creates a validated protein sequence with an identifier.
func NewSequenceWithID(residues, id string) (*Sequence, error) {
	return sequence.WithID(residues, id)
}

// Align aligns x against y over BLOSUM62.
func Align(x, y []byte, mode Mode) (*Alignment, error) {
	return alignment.Align(x, y, mode, nil)
}

// AlignString aligns two residue strings with a mode given by name.
func AlignString(x, y, mode string) (*Alignment, error) {
	return alignment.AlignString(x, y, mode)
}

// Score returns the optimal alignment score without building the trace.
func Score(x, y []byte, mode Mode) (int, error) {
	return alignment.ScoreOnly(x, y, mode, nil)
}

// Identity returns the percent identity of an alignment.
func Identity(a *Alignment) int {
	return metrics.Identity(a)
}

// Similarity returns the percent similarity of an alignment of x against y,
// measured against the longer of the two.
func Similarity(a *Alignment, x, y []byte) (int, error) {
	return metrics.Similarity(a, x, y, nil)
}

// Evaluate aligns x against y and computes the score, identity and
// similarity of the alignment.
func Evaluate(x, y []byte, mode Mode) (*Alignment, Metrics, error) {
	scoring := alignment.BLOSUM62()
	a, err := alignment.Align(x, y, mode, scoring)
	if err != nil {
		return nil, Metrics{}, err
	}
	m, err := metrics.Compute(a, x, y, scoring)
	if err != nil {
		return nil, Metrics{}, err
	}
	return a, m, nil
}

// AlignAll aligns every distinct pair of seqs and returns the results in
// pair order.
func AlignAll(ctx context.Context, seqs []*Sequence, opts PairOptions) ([]*PairResult, error) {
	return pairwise.Collect(ctx, seqs, opts)
}

// Summarize aggregates all-pairs results.
func Summarize(results []*PairResult) *Summary {
	return pairwise.Summarize(results)
}

// SequenceSetStats calculates length statistics of a sequence set.
func SequenceSetStats(seqs []*Sequence) (*SetStats, error) {
	return stats.FromSequences(seqs)
}

// KMerDistance returns the Jaccard distance between the k-mer sets of x
// and y.
func KMerDistance(x, y []byte, k int) (float64, error) {
	return kmer.JaccardDistance(x, y, k)
}

// ReadFASTA reads protein sequences from a FASTA file, plain or compressed.
func ReadFASTA(file string) ([]*Sequence, error) {
	return sequence.ReadFASTA(file)
}

// WriteFASTA writes sequences to a FASTA file with lines of width residues.
// A ".gz", ".xz", ".zst" or ".bz2" suffix compresses the output.
func WriteFASTA(file string, seqs []*Sequence, width int) error {
	outfh, err := xopen.Wopen(file)
	if err != nil {
		return errors.Wrapf(err, "create %s", file)
	}
	for _, s := range seqs {
		if _, err = outfh.WriteString(s.ToFASTA(width)); err != nil {
			outfh.Close()
			return errors.Wrapf(err, "write %s", file)
		}
	}
	return outfh.Close()
}

// Version returns the compseq version.
func Version() string {
	return config.Version
}

// Info returns information about compseq.
func Info() string {
	return fmt.Sprintf(`compseq v%s - Pairwise Protein Alignment Library

Features:
  - Global (Needleman-Wunsch) and local (Smith-Waterman) alignment
  - Affine gap penalties (open %d, extend %d) over BLOSUM62
  - Edit traces with matches, substitutions, gaps and clipped flanks
  - Percent identity and percent similarity
  - All-pairs alignment of FASTA files on multiple CPUs
  - K-mer prefilter for dissimilar pairs
`, Version(), alignment.GapOpen, alignment.GapExtend)
}
