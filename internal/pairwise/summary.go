package pairwise

import "github.com/aria-lang/compseq-go/internal/stats"

// Summarize aggregates results. Skipped pairs are counted but contribute
// no values.
func Summarize(results []*Result) *stats.AlignmentSummary {
	scores := make([]float64, 0, len(results))
	identities := make([]float64, 0, len(results))
	similarities := make([]float64, 0, len(results))
	skipped := 0

	for _, r := range results {
		if r.Skipped {
			skipped++
			continue
		}
		scores = append(scores, float64(r.Score))
		identities = append(identities, float64(r.Identity))
		similarities = append(similarities, float64(r.Similarity))
	}

	return stats.Summarize(scores, identities, similarities, skipped)
}
