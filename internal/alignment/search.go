package alignment

import (
	"sort"

	"github.com/pkg/errors"
)

// Hit is the alignment of a query against one target of a search.
type Hit struct {
	Index     int
	Alignment *Alignment
}

// AlignAgainstMultiple aligns query against every target and returns the
// hits ordered by descending score. Hits with equal scores keep the target
// order.
func AlignAgainstMultiple(query []byte, targets [][]byte, mode Mode, scoring *Scoring) ([]Hit, error) {
	alg := NewAligner(scoring)

	hits := make([]Hit, 0, len(targets))
	for i, target := range targets {
		a, err := alg.Align(query, target, mode)
		if err != nil {
			return nil, errors.Wrapf(err, "target %d", i)
		}
		hits = append(hits, Hit{Index: i, Alignment: a})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Alignment.Score > hits[j].Alignment.Score
	})
	return hits, nil
}

// FindBest returns the highest scoring target, or nil if there are no
// targets.
func FindBest(query []byte, targets [][]byte, mode Mode, scoring *Scoring) (*Hit, error) {
	if len(targets) == 0 {
		return nil, nil
	}
	hits, err := AlignAgainstMultiple(query, targets, mode, scoring)
	if err != nil {
		return nil, err
	}
	return &hits[0], nil
}
