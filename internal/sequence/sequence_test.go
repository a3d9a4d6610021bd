package sequence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/compseq-go/internal/alignment"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		residues string
		want     string
		wantErr  bool
		errType  interface{}
	}{
		{
			name:     "valid protein",
			residues: "LSPADKTNVK",
			want:     "LSPADKTNVK",
		},
		{
			name:     "lowercase",
			residues: "lspadktnvk",
			want:     "LSPADKTNVK",
		},
		{
			name:     "ambiguity codes",
			residues: "BZX*",
			want:     "BZX*",
		},
		{
			name:     "empty sequence",
			residues: "",
			want:     "",
		},
		{
			name:     "gap character",
			residues: "LSP-DK",
			wantErr:  true,
			errType:  &InvalidResidueError{},
		},
		{
			name:     "digit",
			residues: "LSP1",
			wantErr:  true,
			errType:  &InvalidResidueError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.residues)

			if tt.wantErr {
				require.Error(t, err)
				assert.IsType(t, tt.errType, err)
				var se SequenceError
				assert.ErrorAs(t, err, &se)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(s.Residues))
			assert.Equal(t, len(tt.want), s.Len())
		})
	}
}

func TestInvalidResiduePosition(t *testing.T) {
	_, err := New("LSP-DK")
	var ire *InvalidResidueError
	require.ErrorAs(t, err, &ire)
	assert.Equal(t, 3, ire.Position)
	assert.Equal(t, byte('-'), ire.Found)
}

func TestValidateWithScoring(t *testing.T) {
	scoring := alignment.BLOSUM62()

	assert.NoError(t, Validate([]byte("LSPADKTNVK"), scoring))
	assert.NoError(t, Validate([]byte("LSPADKTNVK"), nil))
	assert.True(t, IsValidResidue('W', scoring))
	assert.True(t, IsValidResidue('*', nil))
	assert.False(t, IsValidResidue('-', scoring))

	err := Validate([]byte("LSP-DK"), scoring)
	var ire *InvalidResidueError
	require.ErrorAs(t, err, &ire)
	assert.Equal(t, 3, ire.Position)

	s, err := NewWithScoring("wwW", scoring)
	require.NoError(t, err)
	assert.Equal(t, "WWW", string(s.Residues))
}

func TestWithID(t *testing.T) {
	s, err := WithID("LSPADKTNVK", "P1")
	require.NoError(t, err)
	assert.Equal(t, "P1", s.ID)
	assert.Equal(t, ">P1\nLSPADKTNVK", s.String())

	_, err = WithID("LSPADKTNVK", "")
	assert.IsType(t, &EmptyIDError{}, err)
}

func TestSubsequence(t *testing.T) {
	s, _ := New("LSPADKTNVK")

	sub, err := s.Subsequence(2, 5)
	require.NoError(t, err)
	assert.Equal(t, "PAD", string(sub.Residues))

	// the copy does not alias the parent
	sub.Residues[0] = 'W'
	assert.Equal(t, "LSPADKTNVK", string(s.Residues))

	empty, err := s.Subsequence(3, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	_, err = s.Subsequence(-1, 2)
	assert.Error(t, err)
	_, err = s.Subsequence(4, 2)
	assert.Error(t, err)
	_, err = s.Subsequence(0, 11)
	assert.Error(t, err)
}

func TestReverse(t *testing.T) {
	s, _ := New("LSPAD")
	assert.Equal(t, "DAPSL", string(s.Reverse().Residues))
}

func TestComposition(t *testing.T) {
	s, _ := New("KAKAK")
	assert.Equal(t, []ResidueCount{{'K', 3}, {'A', 2}}, s.Composition())

	e, _ := New("")
	assert.Empty(t, e.Composition())
}

func TestFindMotifPositions(t *testing.T) {
	s, _ := New("KAKAKA")

	pos, err := s.FindMotifPositions("aka")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, pos)

	pos, err = s.FindMotifPositions("WWWWWWWWWW")
	require.NoError(t, err)
	assert.Empty(t, pos)

	_, err = s.FindMotifPositions("")
	assert.Error(t, err)
}

func TestToFASTA(t *testing.T) {
	s := &Sequence{ID: "P1", Description: "test protein", Residues: []byte("LSPADKTNVK")}
	assert.Equal(t, ">P1 test protein\nLSPA\nDKTN\nVK\n", s.ToFASTA(4))
	assert.Equal(t, ">P1 test protein\nLSPADKTNVK\n", s.ToFASTA(0))

	anon := &Sequence{Residues: []byte("AC")}
	assert.Equal(t, ">sequence\nAC\n", anon.ToFASTA(60))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestReadFASTA(t *testing.T) {
	t.Run("records in order", func(t *testing.T) {
		file := writeFile(t, "in.fasta", ">P1 first protein\nLSPADK\nTNVK\n>P2\nlspadqtnvk\n")

		seqs, err := ReadFASTA(file)
		require.NoError(t, err)
		require.Len(t, seqs, 2)

		assert.Equal(t, "P1", seqs[0].ID)
		assert.Equal(t, "first protein", seqs[0].Description)
		assert.Equal(t, "LSPADKTNVK", string(seqs[0].Residues))
		assert.Equal(t, "P2", seqs[1].ID)
		assert.Equal(t, "", seqs[1].Description)
		assert.Equal(t, "LSPADQTNVK", string(seqs[1].Residues))
	})

	t.Run("invalid residue names the record", func(t *testing.T) {
		file := writeFile(t, "bad.fasta", ">ok\nLSPADK\n>broken\nLS#ADK\n")

		_, err := ReadFASTA(file)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
		var ire *InvalidResidueError
		assert.ErrorAs(t, err, &ire)
	})

	t.Run("empty records are kept", func(t *testing.T) {
		file := writeFile(t, "empty.fasta", ">A\nLSPADK\n>E\n>C\nWWW\n")

		seqs, err := ReadFASTA(file)
		require.NoError(t, err)
		require.Len(t, seqs, 3)
		assert.Equal(t, []string{"A", "E", "C"}, []string{seqs[0].ID, seqs[1].ID, seqs[2].ID})
		assert.Equal(t, 0, seqs[1].Len())
		assert.Equal(t, "WWW", string(seqs[2].Residues))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFASTA(filepath.Join(t.TempDir(), "absent.fasta"))
		assert.Error(t, err)
	})

	t.Run("several files", func(t *testing.T) {
		a := writeFile(t, "a.fasta", ">A\nLSPADK\n")
		b := writeFile(t, "b.fasta", ">B\nPEEKSAV\n>C\nWWW\n")

		seqs, err := ReadFASTAFiles([]string{a, b})
		require.NoError(t, err)
		require.Len(t, seqs, 3)
		assert.Equal(t, []string{"A", "B", "C"}, []string{seqs[0].ID, seqs[1].ID, seqs[2].ID})
	})
}
