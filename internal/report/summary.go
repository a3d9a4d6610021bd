package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/aria-lang/compseq-go/internal/pairwise"
	"github.com/aria-lang/compseq-go/internal/stats"
)

// SummaryBins is the number of bins of the text histogram.
const SummaryBins = 10

const barWidth = 40

// WriteSummary writes the summary statistics of results followed by a text
// histogram of the similarity of the aligned pairs.
func WriteSummary(w io.Writer, results []*pairwise.Result) error {
	s := pairwise.Summarize(results)
	if _, err := fmt.Fprintln(w, s); err != nil {
		return err
	}
	if s.Similarity.N == 0 {
		return nil
	}

	values := make([]float64, 0, s.Similarity.N)
	for _, r := range results {
		if !r.Skipped {
			values = append(values, float64(r.Similarity))
		}
	}
	h, err := stats.NewPercentHistogram(values, SummaryBins)
	if err != nil {
		return err
	}

	peak := 0
	for _, c := range h.Bins {
		if c > peak {
			peak = c
		}
	}
	start, end := h.ModeBin()
	if _, err = fmt.Fprintf(w, "similarity (most pairs in [%.0f, %.0f)):\n", start, end); err != nil {
		return err
	}
	for i, c := range h.Bins {
		lo := float64(i) * h.BinSize
		_, err = fmt.Fprintf(w, "  %3.0f-%-3.0f %6d %s\n", lo, lo+h.BinSize, c,
			strings.Repeat("#", c*barWidth/peak))
		if err != nil {
			return err
		}
	}
	return nil
}
