package sequence

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"

	"github.com/aria-lang/compseq-go/internal/alignment"
)

// ReadFASTA reads every record of a FASTA file in file order. Compressed
// files are detected automatically and "-" reads stdin. Records with an
// empty sequence are kept. Residues are validated against BLOSUM62.
func ReadFASTA(file string) ([]*Sequence, error) {
	scoring := alignment.BLOSUM62()

	fastxReader, err := fastx.NewReader(seq.Unlimit, file, "")
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", file)
	}
	defer fastxReader.Close()

	var record *fastx.Record
	seqs := make([]*Sequence, 0, 8)
	for {
		record, err = fastxReader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "read %s", file)
		}

		s := &Sequence{
			ID:       string(record.ID),
			Residues: Upper(append([]byte(nil), record.Seq.Seq...)),
		}
		if bytes.HasPrefix(record.Name, record.ID) {
			s.Description = string(bytes.TrimSpace(record.Name[len(record.ID):]))
		}
		if err = Validate(s.Residues, scoring); err != nil {
			return nil, errors.Wrapf(err, "%s: record %s", file, s.ID)
		}
		seqs = append(seqs, s)
	}

	return seqs, nil
}

// ReadFASTAFiles reads several FASTA files and concatenates their records
// in argument order.
func ReadFASTAFiles(files []string) ([]*Sequence, error) {
	var all []*Sequence
	for _, file := range files {
		seqs, err := ReadFASTA(file)
		if err != nil {
			return nil, err
		}
		all = append(all, seqs...)
	}
	return all, nil
}
