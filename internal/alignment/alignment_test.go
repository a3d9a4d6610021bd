package alignment

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoring(t *testing.T) {
	s := BLOSUM62()

	t.Run("gap penalties", func(t *testing.T) {
		assert.Equal(t, -5, s.GapOpenPenalty)
		assert.Equal(t, -1, s.GapExtendPenalty)
	})

	tests := []struct {
		a, b byte
		want int
	}{
		{'L', 'L', 4},
		{'K', 'Q', 1},
		{'Q', 'K', 1},
		{'W', 'W', 11},
		{'C', 'C', 9},
		{'P', 'W', -4},
		{'D', 'E', 2},
		{'k', 'q', 1},
		{'a', 'A', 4},
	}
	for _, tt := range tests {
		t.Run(string([]byte{tt.a, '/', tt.b}), func(t *testing.T) {
			got, err := s.Score(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("uncovered residues", func(t *testing.T) {
		assert.True(t, s.Covers('A'))
		assert.False(t, s.Covers('-'))
		assert.False(t, s.Covers('1'))

		_, err := s.Score('A', '-')
		var ae *AlphabetError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, byte('-'), ae.Letter)
		assert.Equal(t, -1, ae.Position)
	})

	t.Run("validate", func(t *testing.T) {
		require.NoError(t, s.Validate([]byte("LSPADKTNVK")))

		err := s.Validate([]byte("LSP#DK"))
		var ae *AlphabetError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, 3, ae.Position)
		assert.Equal(t, byte('#'), ae.Letter)
	})
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"global", Global, false},
		{"GLOBAL", Global, false},
		{" local ", Local, false},
		{"Local", Local, false},
		{"semiglobal", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				var me *InvalidModeError
				require.True(t, errors.As(err, &me))
				assert.Equal(t, tt.in, me.Mode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "global", Global.String())
	assert.Equal(t, "local", Local.String())
}

func TestOp(t *testing.T) {
	t.Run("diagonal", func(t *testing.T) {
		dx, dy := opMatch.Consumes()
		assert.Equal(t, 1, dx)
		assert.Equal(t, 1, dy)
		assert.False(t, opMatch.IsClip())
		assert.Equal(t, "Match", opMatch.String())
	})

	t.Run("gaps", func(t *testing.T) {
		dx, dy := opDelete.Consumes()
		assert.Equal(t, [2]int{1, 0}, [2]int{dx, dy})
		dx, dy = opInsert.Consumes()
		assert.Equal(t, [2]int{0, 1}, [2]int{dx, dy})
	})

	t.Run("clip", func(t *testing.T) {
		op := NewClip(ClipStart, AxisY, 7)
		assert.Equal(t, ClipStart, op.Type())
		assert.Equal(t, AxisY, op.Axis())
		assert.Equal(t, 7, op.Len())
		assert.True(t, op.IsClip())
		dx, dy := op.Consumes()
		assert.Equal(t, [2]int{0, 7}, [2]int{dx, dy})
		assert.Equal(t, "ClipStart(y,7)", op.String())
	})
}

func types(ops []Op) []OpType {
	ts := make([]OpType, len(ops))
	for i, op := range ops {
		ts[i] = op.Type()
	}
	return ts
}

func TestGlobal(t *testing.T) {
	tests := []struct {
		name  string
		x, y  string
		score int
		ops   []OpType
		cigar string
	}{
		{
			name:  "identical",
			x:     "LSPADKTNVK",
			y:     "LSPADKTNVK",
			score: 4 + 4 + 7 + 4 + 6 + 5 + 5 + 6 + 4 + 5,
			ops:   []OpType{Match, Match, Match, Match, Match, Match, Match, Match, Match, Match},
			cigar: "10=",
		},
		{
			name:  "one substitution",
			x:     "LSPADKTNVK",
			y:     "LSPADQTNVK",
			score: 46,
			ops:   []OpType{Match, Match, Match, Match, Match, Subst, Match, Match, Match, Match},
			cigar: "5=1X4=",
		},
		{
			name:  "residue only in x",
			x:     "ACDEF",
			y:     "ACEF",
			score: 19,
			ops:   []OpType{Match, Match, Delete, Match, Match},
			cigar: "2=1I2=",
		},
		{
			name:  "residue only in y",
			x:     "ACEF",
			y:     "ACDEF",
			score: 19,
			ops:   []OpType{Match, Match, Insert, Match, Match},
			cigar: "2=1D2=",
		},
		{
			name:  "leading residue only in x",
			x:     "ALSPADQTNVK",
			y:     "LSPADQTNVK",
			score: 45,
			ops:   []OpType{Delete, Match, Match, Match, Match, Match, Match, Match, Match, Match, Match},
			cigar: "1I10=",
		},
		{
			name:  "empty y",
			x:     "LSPADKTNVK",
			y:     "",
			score: -14,
			ops:   []OpType{Delete, Delete, Delete, Delete, Delete, Delete, Delete, Delete, Delete, Delete},
			cigar: "10I",
		},
		{
			name:  "empty x",
			x:     "",
			y:     "ACD",
			score: -7,
			ops:   []OpType{Insert, Insert, Insert},
			cigar: "3D",
		},
		{
			name:  "both empty",
			x:     "",
			y:     "",
			score: 0,
			ops:   []OpType{},
			cigar: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Align([]byte(tt.x), []byte(tt.y), Global, nil)
			require.NoError(t, err)
			require.NoError(t, a.Check())

			assert.Equal(t, tt.score, a.Score)
			assert.Equal(t, tt.ops, types(a.Operations))
			assert.Equal(t, tt.cigar, a.CIGAR())
			assert.Equal(t, Global, a.Mode)
			assert.Equal(t, 0, a.XStart)
			assert.Equal(t, len(tt.x), a.XEnd)
			assert.Equal(t, 0, a.YStart)
			assert.Equal(t, len(tt.y), a.YEnd)
		})
	}
}

func TestGlobalAffineGaps(t *testing.T) {
	// one run of two gaps beats two separate gaps
	a, err := AlignString("WWWW", "WW", "global")
	require.NoError(t, err)
	require.NoError(t, a.Check())

	assert.Equal(t, 11+11+GapOpen+GapExtend, a.Score)
	assert.Equal(t, 2, a.GapCount())
	assert.Equal(t, 1, a.GapOpenings())
	assert.Equal(t, 2, a.MatchCount())
	assert.Equal(t, 4, a.Length())
}

func TestGlobalTiePriority(t *testing.T) {
	// equal-score paths resolve diagonal first, then Insert, then Delete
	tests := []struct {
		x, y string
		ops  []Op
	}{
		{"WWWW", "WW", []Op{opDelete, opDelete, opMatch, opMatch}},
		{"WW", "WWWW", []Op{opInsert, opInsert, opMatch, opMatch}},
		{
			"LSPADKTNVKAA", "PEEKSAV",
			[]Op{
				opDelete, opDelete, opMatch, opSubst, opSubst, opMatch,
				opSubst, opDelete, opDelete, opDelete, opMatch, opSubst,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.x+"/"+tt.y, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				a, err := AlignString(tt.x, tt.y, "global")
				require.NoError(t, err)
				assert.Equal(t, tt.ops, a.Operations)
			}
		})
	}
}

func TestLocal(t *testing.T) {
	tests := []struct {
		name         string
		x, y         string
		score        int
		xStart, xEnd int
		yStart, yEnd int
		ops          []Op
		cigar        string
	}{
		{
			name:   "embedded motif",
			x:      "PPWWWPP",
			y:      "WWW",
			score:  33,
			xStart: 2, xEnd: 5,
			yStart: 0, yEnd: 3,
			ops: []Op{
				NewClip(ClipStart, AxisX, 2),
				opMatch, opMatch, opMatch,
				NewClip(ClipEnd, AxisX, 2),
			},
			cigar: "2S3=2S",
		},
		{
			name:   "ungapped diagonal",
			x:      "LSPADKTNVKAA",
			y:      "PEEKSAV",
			score:  16,
			xStart: 2, xEnd: 9,
			yStart: 0, yEnd: 7,
			ops: []Op{
				NewClip(ClipStart, AxisX, 2),
				opMatch, opSubst, opSubst, opMatch, opSubst, opSubst, opMatch,
				NewClip(ClipEnd, AxisX, 3),
			},
			cigar: "2S1=2X1=2X1=3S",
		},
		{
			name:   "no positive pair",
			x:      "WWW",
			y:      "PPP",
			score:  0,
			xStart: 0, xEnd: 0,
			yStart: 0, yEnd: 0,
			ops: []Op{
				NewClip(ClipEnd, AxisX, 3),
				NewClip(ClipEnd, AxisY, 3),
			},
			cigar: "3S",
		},
		{
			name:   "empty x",
			x:      "",
			y:      "ACD",
			score:  0,
			xStart: 0, xEnd: 0,
			yStart: 0, yEnd: 0,
			ops:    []Op{NewClip(ClipEnd, AxisY, 3)},
			cigar:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Align([]byte(tt.x), []byte(tt.y), Local, nil)
			require.NoError(t, err)
			require.NoError(t, a.Check())

			assert.Equal(t, tt.score, a.Score)
			assert.Equal(t, tt.xStart, a.XStart)
			assert.Equal(t, tt.xEnd, a.XEnd)
			assert.Equal(t, tt.yStart, a.YStart)
			assert.Equal(t, tt.yEnd, a.YEnd)
			assert.Equal(t, tt.ops, a.Operations)
			assert.Equal(t, tt.cigar, a.CIGAR())

			for _, op := range a.Core() {
				assert.False(t, op.IsClip())
			}
		})
	}
}

func TestLocalNeverNegative(t *testing.T) {
	pairs := [][2]string{
		{"QQQQ", "WWWW"},
		{"LSPADKTNVKAA", "QQQQQQQQQQQQ"},
		{"", ""},
	}
	for _, p := range pairs {
		score, err := ScoreOnly([]byte(p[0]), []byte(p[1]), Local, nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, 0)
	}
}

func TestScoreOnlyMatchesAlign(t *testing.T) {
	pairs := [][2]string{
		{"LSPADKTNVKAA", "PEEKSAV"},
		{"ALSPADQTNVK", "LSPADQTNVK"},
		{"MKTAYIAKQRQISFVKSHFSRQ", "MKTAYIAKQRQISFVKSHFSRQ"},
		{"MKTAYIAKQRQ", "HFSRQLEERLGLIEVQ"},
		{"WWWW", "WW"},
		{"", "ACD"},
	}

	alg := NewAligner(nil)
	for _, mode := range []Mode{Global, Local} {
		for _, p := range pairs {
			t.Run(mode.String()+"/"+p[0]+"/"+p[1], func(t *testing.T) {
				a, err := alg.Align([]byte(p[0]), []byte(p[1]), mode)
				require.NoError(t, err)
				require.NoError(t, a.Check())

				score, err := alg.ScoreOnly([]byte(p[0]), []byte(p[1]), mode)
				require.NoError(t, err)
				assert.Equal(t, a.Score, score)

				// swapping the inputs keeps the score
				swapped, err := alg.ScoreOnly([]byte(p[1]), []byte(p[0]), mode)
				require.NoError(t, err)
				assert.Equal(t, score, swapped)
			})
		}
	}
}

func TestDeterministic(t *testing.T) {
	x := []byte("MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQ")
	y := []byte("MKTAYIAKQRISFVKSHFSRQLEERLGLIEVQAPILSR")

	for _, mode := range []Mode{Global, Local} {
		first, err := NewAligner(nil).Align(x, y, mode)
		require.NoError(t, err)

		// a reused aligner with dirty buffers gives the same answer
		alg := NewAligner(nil)
		_, err = alg.Align([]byte("WWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWW"), []byte("PPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPPP"), mode)
		require.NoError(t, err)
		second, err := alg.Align(x, y, mode)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	}
}

func TestAlignErrors(t *testing.T) {
	t.Run("residue outside the alphabet", func(t *testing.T) {
		_, err := Align([]byte("LSPADK"), []byte("LS-ADK"), Global, nil)
		var ae *AlphabetError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, 2, ae.Position)
		assert.Equal(t, byte('-'), ae.Letter)
		assert.Contains(t, err.Error(), "sequence y")
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := Align([]byte("A"), []byte("A"), Mode(7), nil)
		var me *InvalidModeError
		require.True(t, errors.As(err, &me))

		_, err = AlignString("A", "A", "banded")
		require.True(t, errors.As(err, &me))
	})
}

func TestCheck(t *testing.T) {
	good := &Alignment{
		XStart: 1, XEnd: 3, XLen: 4,
		YStart: 0, YEnd: 2, YLen: 2,
		Mode: Local,
		Operations: []Op{
			NewClip(ClipStart, AxisX, 1),
			opMatch, opMatch,
			NewClip(ClipEnd, AxisX, 1),
		},
	}
	require.NoError(t, good.Check())

	tests := []struct {
		name   string
		mutate func(a *Alignment)
	}{
		{"core overshoots", func(a *Alignment) { a.XEnd = 2 }},
		{"region outside sequence", func(a *Alignment) { a.YEnd = 5 }},
		{"clip inside core", func(a *Alignment) {
			a.Operations = []Op{
				NewClip(ClipStart, AxisX, 1),
				opMatch, NewClip(ClipStart, AxisY, 0), opMatch,
				NewClip(ClipEnd, AxisX, 1),
			}
		}},
		{"full trace too short", func(a *Alignment) {
			a.Operations = a.Operations[:3]
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := *good
			a.Operations = append([]Op(nil), good.Operations...)
			tt.mutate(&a)

			var iv *InvariantViolation
			require.True(t, errors.As(a.Check(), &iv))
		})
	}
}

func TestFormat(t *testing.T) {
	a, err := AlignString("ACDEF", "ACEF", "global")
	require.NoError(t, err)

	out := a.Format([]byte("ACDEF"), []byte("ACEF"))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "x:     1 ACDEF 5", lines[0])
	assert.Equal(t, "         || ||", lines[1])
	assert.Equal(t, "y:     1 AC-EF 4", lines[2])
	assert.Equal(t, "Score: 19", lines[3])
	assert.Equal(t, "CIGAR: 2=1I2=", lines[4])

	assert.Contains(t, a.String(), "score: 19")
}

func TestSearch(t *testing.T) {
	query := []byte("LSPADKTNVK")
	targets := [][]byte{
		[]byte("QQQQQQQQQQ"),
		[]byte("LSPADKTNVK"),
		[]byte("LSPADQTNVK"),
	}

	hits, err := AlignAgainstMultiple(query, targets, Global, nil)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, 1, hits[0].Index)
	assert.Equal(t, 2, hits[1].Index)
	assert.Equal(t, 0, hits[2].Index)
	assert.GreaterOrEqual(t, hits[0].Alignment.Score, hits[1].Alignment.Score)

	best, err := FindBest(query, targets, Local, nil)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, 1, best.Index)

	best, err = FindBest(query, nil, Local, nil)
	require.NoError(t, err)
	assert.Nil(t, best)
}

func benchmarkPair() ([]byte, []byte) {
	var x, y strings.Builder
	for i := 0; i < 30; i++ {
		x.WriteString("MKTAYIAKQR")
		y.WriteString("MKTAHIAKQR")
	}
	return []byte(x.String()), []byte(y.String())
}

func BenchmarkGlobal(b *testing.B) {
	x, y := benchmarkPair()
	alg := NewAligner(nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = alg.Global(x, y)
	}
}

func BenchmarkLocal(b *testing.B) {
	x, y := benchmarkPair()
	alg := NewAligner(nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = alg.Local(x, y)
	}
}

func BenchmarkScoreOnly(b *testing.B) {
	x, y := benchmarkPair()
	alg := NewAligner(nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = alg.ScoreOnly(x, y, Local)
	}
}
