// Package metrics derives percentage identity and similarity from an
// alignment trace.
package metrics

import (
	"math"

	"github.com/aria-lang/compseq-go/internal/alignment"
	"github.com/pkg/errors"
)

// Result bundles the numbers reported for one aligned pair.
type Result struct {
	Score      int
	Identity   int
	Similarity int
}

// Compute returns the score, identity and similarity of an alignment.
func Compute(a *alignment.Alignment, x, y []byte, scoring *alignment.Scoring) (Result, error) {
	sim, err := Similarity(a, x, y, scoring)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Score:      a.Score,
		Identity:   Identity(a),
		Similarity: sim,
	}, nil
}

// Identity is the number of identical aligned residues as a percentage of
// the longer input sequence. It is 0 when both sequences are empty.
func Identity(a *alignment.Alignment) int {
	length := a.XLen
	if a.YLen > length {
		length = a.YLen
	}
	if length == 0 {
		return 0
	}
	return percent(a.MatchCount(), length)
}

// Similarity is the achieved alignment score as a percentage of the best
// score the positions could have reached.
//
// The longer sequence is the reference, y when both have the same length, so
// the result does not depend on the argument order. Reference residues
// outside the aligned region, located by the offsets of the reference's own
// axis, add their self-score to the ceiling only. Inside the region, matches add their score
// to both sums, substitutions add the higher of the two self-scores to the
// ceiling, and gaps add the gapped residue's self-score to the ceiling and
// an affine gap cost to the achieved score. A negative achieved score is
// reported as 0.
func Similarity(a *alignment.Alignment, x, y []byte, scoring *alignment.Scoring) (int, error) {
	if scoring == nil {
		scoring = alignment.BLOSUM62()
	}
	if len(x) != a.XLen || len(y) != a.YLen {
		return 0, &alignment.InvariantViolation{
			Reason: "alignment was computed for sequences of different lengths",
		}
	}
	if err := a.Check(); err != nil {
		return 0, err
	}

	var score, maxScore int

	// Left and right unaligned regions of the reference
	flanks := [][]byte{y[:a.YStart], y[a.YEnd:]}
	if len(x) > len(y) {
		flanks = [][]byte{x[:a.XStart], x[a.XEnd:]}
	}
	for _, flank := range flanks {
		for _, r := range flank {
			s, err := scoring.SelfScore(r)
			if err != nil {
				return 0, errors.Wrap(err, "reference flank")
			}
			maxScore += s
		}
	}

	xi, yi := a.XStart, a.YStart
	prev := alignment.ClipEnd
	for _, op := range a.Core() {
		t := op.Type()
		switch t {
		case alignment.Match, alignment.Subst:
			if xi >= len(x) || yi >= len(y) {
				return 0, &alignment.InvariantViolation{Reason: "diagonal move past the end of a sequence"}
			}
			q, r := x[xi], y[yi]
			s, err := scoring.Score(q, r)
			if err != nil {
				return 0, err
			}
			score += s
			if t == alignment.Match {
				maxScore += s
			} else {
				sq, _ := scoring.SelfScore(q)
				sr, _ := scoring.SelfScore(r)
				maxScore += max(sq, sr)
			}
			xi++
			yi++
		case alignment.Delete:
			if xi >= len(x) {
				return 0, &alignment.InvariantViolation{Reason: "deletion past the end of x"}
			}
			s, err := scoring.SelfScore(x[xi])
			if err != nil {
				return 0, err
			}
			score += gapCost(scoring, prev == t)
			maxScore += s
			xi++
		case alignment.Insert:
			if yi >= len(y) {
				return 0, &alignment.InvariantViolation{Reason: "insertion past the end of y"}
			}
			s, err := scoring.SelfScore(y[yi])
			if err != nil {
				return 0, err
			}
			score += gapCost(scoring, prev == t)
			maxScore += s
			yi++
		case alignment.ClipStart, alignment.ClipEnd:
			dx, dy := op.Consumes()
			xi += dx
			yi += dy
		}
		prev = t
	}

	if maxScore <= 0 {
		return 0, nil
	}
	return clamp(percent(max(score, 0), maxScore)), nil
}

func gapCost(scoring *alignment.Scoring, extending bool) int {
	if extending {
		return scoring.GapExtendPenalty
	}
	return scoring.GapOpenPenalty
}

func percent(num, den int) int {
	return int(math.Round(float64(num) / float64(den) * 100))
}

func clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
