package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aria-lang/compseq-go/internal/alignment"
	"github.com/aria-lang/compseq-go/internal/metrics"
	"github.com/aria-lang/compseq-go/internal/sequence"
)

func newPairCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Align two sequences given on the command line",
		Long: `Align two sequences given on the command line

Prints the aligned rows with the score and CIGAR string, then the percent
identity and similarity. -x is the CIGAR query and -y the CIGAR reference;
similarity is measured against the longer of the two.
`,
		Args: cobra.NoArgs,
		RunE: runPair,
	}

	f := cmd.Flags()
	f.StringP("mode", "m", "global", `Alignment mode: "global" or "local".`)
	f.StringP("query", "x", "", "Query sequence.")
	f.StringP("reference", "y", "", "Reference sequence.")

	return cmd
}

func runPair(cmd *cobra.Command, args []string) error {
	opt, err := getOptions(cmd)
	if err != nil {
		return err
	}
	defer opt.Close()

	x, err := sequence.WithID(getFlagString(cmd, "query"), "x")
	if err != nil {
		return errors.Wrap(err, "query")
	}
	y, err := sequence.WithID(getFlagString(cmd, "reference"), "y")
	if err != nil {
		return errors.Wrap(err, "reference")
	}

	scoring := alignment.BLOSUM62()
	a, err := alignment.Align(x.Residues, y.Residues, opt.Config.Mode(), scoring)
	if err != nil {
		return err
	}
	m, err := metrics.Compute(a, x.Residues, y.Residues, scoring)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, a.Format(x.Residues, y.Residues))
	fmt.Fprintf(out, "Mode: %s\nIdentity: %d%%\nSimilarity: %d%%\n", a.Mode, m.Identity, m.Similarity)
	return nil
}
