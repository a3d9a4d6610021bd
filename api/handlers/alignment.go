package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aria-lang/compseq-go/internal/alignment"
	"github.com/aria-lang/compseq-go/internal/metrics"
	"github.com/aria-lang/compseq-go/internal/pairwise"
	"github.com/aria-lang/compseq-go/internal/sequence"
	"github.com/aria-lang/compseq-go/internal/stats"
)

// AlignmentRequest represents an alignment request. Sequence1 is the x axis
// and Sequence2 the y axis. Mode is only read by the score endpoint.
type AlignmentRequest struct {
	Sequence1 string `json:"sequence1"`
	Sequence2 string `json:"sequence2"`
	Mode      string `json:"mode,omitempty"`
}

// AlignmentResponse represents the response for alignment.
type AlignmentResponse struct {
	Mode          string   `json:"mode"`
	Score         int      `json:"score"`
	Identity      int      `json:"identity"`
	Similarity    int      `json:"similarity"`
	XStart        int      `json:"x_start"`
	XEnd          int      `json:"x_end"`
	YStart        int      `json:"y_start"`
	YEnd          int      `json:"y_end"`
	CIGAR         string   `json:"cigar"`
	Matches       int      `json:"matches"`
	Substitutions int      `json:"substitutions"`
	Gaps          int      `json:"gaps"`
	GapOpenings   int      `json:"gap_openings"`
	Operations    []string `json:"operations"`
	Formatted     string   `json:"formatted"`
}

func parsePair(req *AlignmentRequest) (x, y *sequence.Sequence, err error) {
	if x, err = parseSequence("sequence1", req.Sequence1); err != nil {
		return nil, nil, err
	}
	if y, err = parseSequence("sequence2", req.Sequence2); err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// AlignHandler aligns two sequences in the mode named by the {mode} URL
// parameter.
func AlignHandler(w http.ResponseWriter, r *http.Request) {
	mode, err := alignment.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		fail(w, err)
		return
	}

	var req AlignmentRequest
	if err = decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	x, y, err := parsePair(&req)
	if err != nil {
		fail(w, err)
		return
	}

	scoring := alignment.BLOSUM62()
	a, err := alignment.Align(x.Residues, y.Residues, mode, scoring)
	if err != nil {
		fail(w, err)
		return
	}
	m, err := metrics.Compute(a, x.Residues, y.Residues, scoring)
	if err != nil {
		fail(w, err)
		return
	}

	ops := make([]string, len(a.Operations))
	for i, op := range a.Operations {
		ops[i] = op.String()
	}

	writeJSON(w, http.StatusOK, AlignmentResponse{
		Mode:          a.Mode.String(),
		Score:         m.Score,
		Identity:      m.Identity,
		Similarity:    m.Similarity,
		XStart:        a.XStart,
		XEnd:          a.XEnd,
		YStart:        a.YStart,
		YEnd:          a.YEnd,
		CIGAR:         a.CIGAR(),
		Matches:       a.MatchCount(),
		Substitutions: a.SubstCount(),
		Gaps:          a.GapCount(),
		GapOpenings:   a.GapOpenings(),
		Operations:    ops,
		Formatted:     a.Format(x.Residues, y.Residues),
	})
}

// ScoreResponse represents the response for alignment score.
type ScoreResponse struct {
	Mode  string `json:"mode"`
	Score int    `json:"score"`
}

// AlignmentScoreHandler returns the optimal score only. The mode defaults
// to global.
func AlignmentScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req AlignmentRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if req.Mode == "" {
		req.Mode = alignment.Global.String()
	}
	mode, err := alignment.ParseMode(req.Mode)
	if err != nil {
		fail(w, err)
		return
	}
	x, y, err := parsePair(&req)
	if err != nil {
		fail(w, err)
		return
	}

	score, err := alignment.ScoreOnly(x.Residues, y.Residues, mode, nil)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ScoreResponse{Mode: mode.String(), Score: score})
}

// Record is a named sequence of a pairwise request.
type Record struct {
	ID       string `json:"id"`
	Sequence string `json:"sequence"`
}

// PairwiseRequest represents an all-pairs request. MaxKmerDistance below 1
// enables the k-mer prefilter.
type PairwiseRequest struct {
	Mode            string   `json:"mode"`
	Records         []Record `json:"records"`
	KmerSize        int      `json:"kmer_size,omitempty"`
	MaxKmerDistance *float64 `json:"max_kmer_distance,omitempty"`
}

// PairResult is one pair of a pairwise response.
type PairResult struct {
	Query        string  `json:"query"`
	Target       string  `json:"target"`
	Score        int     `json:"score"`
	Identity     int     `json:"identity"`
	Similarity   int     `json:"similarity"`
	CIGAR        string  `json:"cigar"`
	Skipped      bool    `json:"skipped,omitempty"`
	KmerDistance float64 `json:"kmer_distance,omitempty"`
}

// Distribution summarises one per-pair value.
type Distribution struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// PairwiseSummary aggregates a pairwise response.
type PairwiseSummary struct {
	Pairs      int          `json:"pairs"`
	Skipped    int          `json:"skipped"`
	Score      Distribution `json:"score"`
	Identity   Distribution `json:"identity"`
	Similarity Distribution `json:"similarity"`
}

// PairwiseResponse represents the response for all-pairs alignment.
type PairwiseResponse struct {
	Mode    string          `json:"mode"`
	Results []PairResult    `json:"results"`
	Summary PairwiseSummary `json:"summary"`
}

func distribution(d stats.Distribution) Distribution {
	return Distribution{N: d.N, Mean: d.Mean, StdDev: d.StdDev, Min: d.Min, Median: d.Median, Max: d.Max}
}

// PairwiseHandler aligns every distinct pair of the request records on
// threads workers. Requests with more than maxRecords records are rejected.
func PairwiseHandler(maxRecords, threads int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PairwiseRequest
		if err := decode(r, &req); err != nil {
			fail(w, err)
			return
		}
		if req.Mode == "" {
			req.Mode = alignment.Global.String()
		}
		mode, err := alignment.ParseMode(req.Mode)
		if err != nil {
			fail(w, err)
			return
		}
		if len(req.Records) > maxRecords {
			fail(w, badRequestf("too many records: %d > %d", len(req.Records), maxRecords))
			return
		}

		seqs := make([]*sequence.Sequence, len(req.Records))
		for i, rec := range req.Records {
			id := rec.ID
			if id == "" {
				id = fmt.Sprintf("seq%d", i+1)
			}
			if seqs[i], err = sequence.WithID(rec.Sequence, id); err != nil {
				fail(w, badRequestf("record %s: %s", id, err))
				return
			}
		}

		opts := pairwise.Options{Mode: mode, Threads: threads, MaxKmerDistance: 1}
		if req.MaxKmerDistance != nil {
			if *req.MaxKmerDistance < 0 || *req.MaxKmerDistance > 1 {
				fail(w, badRequestf("max_kmer_distance must be in [0, 1]"))
				return
			}
			if req.KmerSize < 0 {
				fail(w, badRequestf("kmer_size must be positive"))
				return
			}
			opts.MaxKmerDistance = *req.MaxKmerDistance
			opts.KmerSize = req.KmerSize
			if opts.KmerSize == 0 {
				opts.KmerSize = 3
			}
		}

		results, err := pairwise.Collect(r.Context(), seqs, opts)
		if err != nil {
			fail(w, err)
			return
		}

		resp := PairwiseResponse{Mode: mode.String(), Results: make([]PairResult, len(results))}
		for i, res := range results {
			resp.Results[i] = PairResult{
				Query:        res.XID,
				Target:       res.YID,
				Score:        res.Score,
				Identity:     res.Identity,
				Similarity:   res.Similarity,
				CIGAR:        res.CIGAR,
				Skipped:      res.Skipped,
				KmerDistance: res.KmerDistance,
			}
		}
		s := pairwise.Summarize(results)
		resp.Summary = PairwiseSummary{
			Pairs:      s.Pairs,
			Skipped:    s.Skipped,
			Score:      distribution(s.Score),
			Identity:   distribution(s.Identity),
			Similarity: distribution(s.Similarity),
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
