// Package stats provides statistical summaries for sequence sets and for
// the scores of an all-pairs run.
package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/aria-lang/compseq-go/internal/sequence"
	"github.com/twotwotwo/sorts"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SequenceSetStats represents aggregated statistics for multiple sequences.
type SequenceSetStats struct {
	Count         int
	TotalResidues int
	MinLength     int
	MaxLength     int
	MeanLength    float64
	MedianLength  int
	N50           int
	Empty         int // sequences without residues
	Unknown       int // residues coded X
}

// FromSequences calculates statistics for a collection of sequences.
func FromSequences(sequences []*sequence.Sequence) (*SequenceSetStats, error) {
	if len(sequences) == 0 {
		return nil, fmt.Errorf("sequence list cannot be empty")
	}

	count := len(sequences)
	lengths := make([]int, count)
	s := &SequenceSetStats{Count: count}

	for i, seq := range sequences {
		lengths[i] = seq.Len()
		s.TotalResidues += seq.Len()
		if seq.Len() == 0 {
			s.Empty++
		}
		for _, b := range seq.Residues {
			if b == 'X' {
				s.Unknown++
			}
		}
	}

	sort.Ints(lengths)
	s.MinLength = lengths[0]
	s.MaxLength = lengths[count-1]
	s.MeanLength = float64(s.TotalResidues) / float64(count)

	mid := count / 2
	if count%2 == 0 {
		s.MedianLength = (lengths[mid-1] + lengths[mid]) / 2
	} else {
		s.MedianLength = lengths[mid]
	}

	// N50: length where 50% of residues are in longer sequences
	halfTotal := s.TotalResidues / 2
	runningSum := 0
	s.N50 = lengths[count-1]
	for i := count - 1; i >= 0; i-- {
		runningSum += lengths[i]
		if runningSum >= halfTotal {
			s.N50 = lengths[i]
			break
		}
	}

	return s, nil
}

func (s *SequenceSetStats) String() string {
	return fmt.Sprintf(`SequenceSetStats {
  count: %d
  total residues: %d
  length range: %d - %d
  mean length: %.1f
  median length: %d
  N50: %d
  empty sequences: %d
  unknown residues: %d
}`, s.Count, s.TotalResidues, s.MinLength, s.MaxLength,
		s.MeanLength, s.MedianLength, s.N50, s.Empty, s.Unknown)
}

// Distribution summarises a sample of values.
type Distribution struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe computes the distribution of values. An empty sample gives a
// zero Distribution, a single value a zero standard deviation.
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sorts.Quicksort(sort.Float64Slice(sorted))

	d := Distribution{
		N:   len(sorted),
		Min: floats.Min(sorted),
		Max: floats.Max(sorted),
	}
	d.Mean, d.StdDev = stat.MeanStdDev(sorted, nil)
	if d.N < 2 || math.IsNaN(d.StdDev) {
		d.StdDev = 0
	}
	d.Q1 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	d.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	d.Q3 = stat.Quantile(0.75, stat.Empirical, sorted, nil)
	return d
}

func (d Distribution) String() string {
	return fmt.Sprintf("n=%d mean=%.2f sd=%.2f min=%.0f q1=%.0f median=%.0f q3=%.0f max=%.0f",
		d.N, d.Mean, d.StdDev, d.Min, d.Q1, d.Median, d.Q3, d.Max)
}

// AlignmentSummary aggregates the results of an all-pairs run.
type AlignmentSummary struct {
	Pairs      int
	Skipped    int
	Score      Distribution
	Identity   Distribution
	Similarity Distribution
}

// Summarize builds an AlignmentSummary from per-pair values of the aligned
// pairs, and the number of pairs skipped by the prefilter.
func Summarize(scores, identities, similarities []float64, skipped int) *AlignmentSummary {
	return &AlignmentSummary{
		Pairs:      len(scores) + skipped,
		Skipped:    skipped,
		Score:      Describe(scores),
		Identity:   Describe(identities),
		Similarity: Describe(similarities),
	}
}

func (s *AlignmentSummary) String() string {
	return fmt.Sprintf(`AlignmentSummary {
  pairs: %d (skipped: %d)
  score: %s
  identity: %s
  similarity: %s
}`, s.Pairs, s.Skipped, s.Score, s.Identity, s.Similarity)
}

// PercentHistogram counts percentages in equal-width bins over [0, 100].
type PercentHistogram struct {
	Bins    []int
	BinSize float64
	NumBins int
}

// NewPercentHistogram bins percentage values. Values outside [0, 100] are
// put in the first or last bin.
func NewPercentHistogram(values []float64, numBins int) (*PercentHistogram, error) {
	if numBins <= 0 {
		return nil, fmt.Errorf("numBins must be positive")
	}

	binSize := 100.0 / float64(numBins)
	bins := make([]int, numBins)

	for _, v := range values {
		binIndex := int(v / binSize)
		if binIndex >= numBins {
			binIndex = numBins - 1
		}
		if binIndex < 0 {
			binIndex = 0
		}
		bins[binIndex]++
	}

	return &PercentHistogram{
		Bins:    bins,
		BinSize: binSize,
		NumBins: numBins,
	}, nil
}

// ModeBin returns the most common range.
func (h *PercentHistogram) ModeBin() (float64, float64) {
	maxCount := h.Bins[0]
	maxBin := 0

	for i, count := range h.Bins {
		if count > maxCount {
			maxCount = count
			maxBin = i
		}
	}

	start := float64(maxBin) * h.BinSize
	return start, start + h.BinSize
}
