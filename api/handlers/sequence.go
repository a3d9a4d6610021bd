package handlers

import (
	"net/http"

	"github.com/aria-lang/compseq-go/internal/kmer"
	"github.com/aria-lang/compseq-go/internal/sequence"
	"github.com/aria-lang/compseq-go/internal/stats"
)

// SequenceRequest represents a request with a sequence.
type SequenceRequest struct {
	Sequence string `json:"sequence"`
}

// ValidateResponse represents the response for validation.
type ValidateResponse struct {
	Valid    bool   `json:"valid"`
	Length   int    `json:"length"`
	Error    string `json:"error,omitempty"`
	Position *int   `json:"position,omitempty"`
}

// ValidateHandler reports whether every residue can be scored. An invalid
// sequence is a successful request with valid set to false.
func ValidateHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}

	resp := ValidateResponse{Valid: true, Length: len(req.Sequence)}
	residues := sequence.Upper([]byte(req.Sequence))
	if err := sequence.Validate(residues, nil); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
		if e, ok := err.(*sequence.InvalidResidueError); ok {
			resp.Position = &e.Position
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ResidueCount is one entry of a composition.
type ResidueCount struct {
	Residue string `json:"residue"`
	Count   int    `json:"count"`
}

// SequenceInfoResponse represents the response for sequence info.
type SequenceInfoResponse struct {
	Length      int            `json:"length"`
	Unknown     int            `json:"unknown"`
	Composition []ResidueCount `json:"composition"`
}

// SequenceInfoHandler returns the length and residue composition.
func SequenceInfoHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	s, err := parseSequence("sequence", req.Sequence)
	if err != nil {
		fail(w, err)
		return
	}

	resp := SequenceInfoResponse{Length: s.Len(), Composition: make([]ResidueCount, 0)}
	for _, rc := range s.Composition() {
		if rc.Residue == kmer.Unknown {
			resp.Unknown = rc.Count
		}
		resp.Composition = append(resp.Composition, ResidueCount{Residue: string(rc.Residue), Count: rc.Count})
	}
	writeJSON(w, http.StatusOK, resp)
}

// SequenceSetRequest represents a request with several sequences.
type SequenceSetRequest struct {
	Sequences []string `json:"sequences"`
}

// SequenceSetStatsResponse represents the response for set statistics.
type SequenceSetStatsResponse struct {
	Count         int     `json:"count"`
	TotalResidues int     `json:"total_residues"`
	MinLength     int     `json:"min_length"`
	MaxLength     int     `json:"max_length"`
	MeanLength    float64 `json:"mean_length"`
	MedianLength  int     `json:"median_length"`
	N50           int     `json:"n50"`
	Empty         int     `json:"empty"`
}

// SequenceSetStatsHandler returns length statistics of a sequence set.
func SequenceSetStatsHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceSetRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if len(req.Sequences) == 0 {
		fail(w, badRequestf("sequences cannot be empty"))
		return
	}

	seqs := make([]*sequence.Sequence, len(req.Sequences))
	for i, residues := range req.Sequences {
		s, err := sequence.New(residues)
		if err != nil {
			fail(w, badRequestf("sequence %d: %s", i+1, err))
			return
		}
		seqs[i] = s
	}

	st, err := stats.FromSequences(seqs)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SequenceSetStatsResponse{
		Count:         st.Count,
		TotalResidues: st.TotalResidues,
		MinLength:     st.MinLength,
		MaxLength:     st.MaxLength,
		MeanLength:    st.MeanLength,
		MedianLength:  st.MedianLength,
		N50:           st.N50,
		Empty:         st.Empty,
	})
}
