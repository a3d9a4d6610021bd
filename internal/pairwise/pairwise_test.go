package pairwise

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/compseq-go/internal/alignment"
	"github.com/aria-lang/compseq-go/internal/sequence"
)

func records(t testing.TB, residues ...string) []*sequence.Sequence {
	t.Helper()
	seqs := make([]*sequence.Sequence, len(residues))
	for i, r := range residues {
		s, err := sequence.WithID(r, fmt.Sprintf("s%d", i+1))
		require.NoError(t, err)
		seqs[i] = s
	}
	return seqs
}

func TestPairIndex(t *testing.T) {
	n := 5
	k := 0
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			assert.Equal(t, k, pairIndex(n, i, j))
			k++
		}
	}
	assert.Equal(t, PairCount(n), k)
	assert.Equal(t, 0, PairCount(1))
	assert.Equal(t, 0, PairCount(0))
}

func TestCollect(t *testing.T) {
	seqs := records(t, "LSPADKTNVK", "LSPADQTNVK", "ALSPADQTNVK")

	want := []Result{
		{I: 0, J: 1, XID: "s1", YID: "s2", Score: 46, Identity: 90, Similarity: 92, CIGAR: "5=1X4="},
		{I: 0, J: 2, XID: "s1", YID: "s3", Score: 41, Identity: 82, Similarity: 76, CIGAR: "1D5=1X4="},
		{I: 1, J: 2, XID: "s2", YID: "s3", Score: 45, Identity: 91, Similarity: 83, CIGAR: "1D10="},
	}

	for _, threads := range []int{1, 2, 8} {
		t.Run(fmt.Sprintf("threads=%d", threads), func(t *testing.T) {
			results, err := Collect(context.Background(), seqs, Options{Mode: alignment.Global, Threads: threads})
			require.NoError(t, err)
			require.Len(t, results, len(want))
			for k, r := range results {
				assert.Equal(t, want[k], *r)
			}
		})
	}
}

func TestRunOrderWithManyPairs(t *testing.T) {
	residues := []string{
		"MKTAYIAKQRQISFVKSHFSRQ", "LSPADKTNVKAA", "PEEKSAV", "WWWW", "",
		"MKTAYIAKQRQ", "HFSRQLEERLGLIEVQ", "LSPADQTNVK", "ACDEF", "ACEF",
	}
	seqs := records(t, residues...)

	var got [][2]int
	var progress []int
	err := Run(context.Background(), seqs, Options{
		Mode:     alignment.Local,
		Threads:  4,
		Progress: func(done int) { progress = append(progress, done) },
	}, func(r *Result) error {
		got = append(got, [2]int{r.I, r.J})
		assert.GreaterOrEqual(t, r.Score, 0)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, got, PairCount(len(seqs)))
	k := 0
	for i := 0; i < len(seqs)-1; i++ {
		for j := i + 1; j < len(seqs); j++ {
			assert.Equal(t, [2]int{i, j}, got[k])
			k++
		}
	}
	require.Len(t, progress, len(got))
	assert.Equal(t, len(got), progress[len(progress)-1])
}

func TestDuplicateSequences(t *testing.T) {
	seqs := records(t, "LSPADKTNVK", "LSPADQTNVK", "LSPADKTNVK", "LSPADQTNVK")

	results, err := Collect(context.Background(), seqs, Options{Mode: alignment.Global, Threads: 1})
	require.NoError(t, err)
	require.Len(t, results, 6)

	// pairs: (0,1) (0,2) (0,3) (1,2) (1,3) (2,3)
	assert.Equal(t, 92, results[0].Similarity)
	assert.Equal(t, *results[0], Result{I: 0, J: 1, XID: "s1", YID: "s2", Score: 46, Identity: 90, Similarity: 92, CIGAR: "5=1X4="})
	assert.Equal(t, 100, results[1].Identity)
	assert.Equal(t, results[0].CIGAR, results[2].CIGAR)
	assert.Equal(t, 100, results[4].Similarity)
	assert.Equal(t, 92, results[5].Similarity)
}

func TestPrefilter(t *testing.T) {
	seqs := records(t, "LSPADKTNVKAA", "LSPADQTNVKAA", "WWWWWWWWWWWW", "AC")

	results, err := Collect(context.Background(), seqs, Options{
		Mode:            alignment.Global,
		Threads:         2,
		KmerSize:        3,
		MaxKmerDistance: 0.9,
	})
	require.NoError(t, err)
	require.Len(t, results, 6)

	byPair := make(map[[2]int]*Result)
	for _, r := range results {
		byPair[[2]int{r.I, r.J}] = r
	}

	assert.False(t, byPair[[2]int{0, 1}].Skipped)
	assert.Less(t, byPair[[2]int{0, 1}].KmerDistance, 0.9)
	assert.True(t, byPair[[2]int{0, 2}].Skipped)
	assert.Equal(t, 1.0, byPair[[2]int{0, 2}].KmerDistance)
	assert.True(t, byPair[[2]int{1, 2}].Skipped)
	// too short for a 3-mer, always aligned
	assert.False(t, byPair[[2]int{0, 3}].Skipped)

	s := Summarize(results)
	assert.Equal(t, 6, s.Pairs)
	assert.Equal(t, 2, s.Skipped)
	assert.Equal(t, 4, s.Identity.N)
}

func TestRunErrors(t *testing.T) {
	t.Run("visit error stops the run", func(t *testing.T) {
		seqs := records(t, "LSPADKTNVK", "LSPADQTNVK", "ALSPADQTNVK", "WWW", "PEEKSAV")
		stop := errors.New("stop")

		calls := 0
		err := Run(context.Background(), seqs, Options{Threads: 3}, func(r *Result) error {
			calls++
			if calls == 2 {
				return stop
			}
			return nil
		})
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 2, calls)
	})

	t.Run("residue outside the alphabet", func(t *testing.T) {
		seqs := []*sequence.Sequence{
			{ID: "ok", Residues: []byte("LSPADK")},
			{ID: "bad", Residues: []byte("LS-ADK")},
		}
		_, err := Collect(context.Background(), seqs, Options{Threads: 1})
		var ae *alignment.AlphabetError
		require.ErrorAs(t, err, &ae)
		assert.Contains(t, err.Error(), "bad")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		seqs := records(t, "LSPADKTNVK", "LSPADQTNVK", "ALSPADQTNVK")
		_, err := Collect(ctx, seqs, Options{Threads: 2})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("too few sequences", func(t *testing.T) {
		results, err := Collect(context.Background(), records(t, "LSPADK"), Options{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func BenchmarkRun(b *testing.B) {
	residues := make([]string, 20)
	for i := range residues {
		residues[i] = "MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQ"[:10+i]
	}
	seqs := records(b, residues...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Collect(context.Background(), seqs, Options{Mode: alignment.Local})
	}
}
