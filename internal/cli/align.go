package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/aria-lang/compseq-go/internal/pairwise"
	"github.com/aria-lang/compseq-go/internal/report"
	"github.com/aria-lang/compseq-go/internal/sequence"
	"github.com/aria-lang/compseq-go/internal/stats"
)

func newAlignCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "align [flags] [file.fasta ...]",
		Short: "Align every distinct pair of sequences",
		Long: `Align every distinct pair of sequences

Input:
  FASTA files given as arguments, with -i/--input, listed one per line in
  -X/--infile-list, or found in --in-dir by --pattern. Plain or gzip, xz,
  zstd and bzip2 compressed. "-" reads stdin.
  Records keep their order across files and every pair (i, j), i < j, is
  reported in that order.

Output (-f/--format):
  text  Alignment between X and Y: identity I%, similarity S%.
  tsv   query, target, mode, score, identity, similarity, CIGAR and
        k-mer distance, one row per pair, NA for skipped pairs.

Prefilter:
  With --max-kmer-distance below 1, pairs whose k-mer Jaccard distance is
  larger are reported as skipped without being aligned.
`,
		RunE: runAlign,
	}

	f := cmd.Flags()
	f.StringP("mode", "m", "global", `Alignment mode: "global" or "local".`)
	f.StringSliceP("input", "i", nil, "Input FASTA file(s).")
	f.StringP("infile-list", "X", "", "File of input files list (one file per line).")
	f.String("in-dir", "", "Directory containing FASTA files, searched recursively.")
	f.StringP("pattern", "p", `\.(fa|fasta|faa|fas|fna)(\.gz|\.xz|\.zst|\.bz2)?$`,
		"Regular expression matching files in --in-dir.")
	f.StringP("out-file", "o", "-", `Out file, supports a ".gz" suffix ("-" for stdout).`)
	f.StringP("format", "f", "text", `Output format: "text" or "tsv".`)
	f.Int("compression-level", 5, "Gzip compression level of a .gz out file.")
	f.String("hist", "", "Draw identity and similarity histograms to this image file (png, svg or pdf).")
	f.Bool("summary", false, "Print summary statistics of the input and the results to stderr.")
	f.IntP("kmer-size", "k", 3, "K-mer size of the prefilter.")
	f.Float64P("max-kmer-distance", "d", 1, "Skip pairs with a larger k-mer Jaccard distance, 1 disables the prefilter.")
	f.Bool("progress", false, "Show a progress bar on stderr.")

	return cmd
}

func runAlign(cmd *cobra.Command, args []string) (err error) {
	opt, err := getOptions(cmd)
	if err != nil {
		return err
	}
	defer opt.Close()
	cfg := opt.Config

	files, err := inputFiles(cmd, args, opt.NumCPUs)
	if err != nil {
		return err
	}

	log.Infof("Running alignment in mode: %s", cfg.Mode())
	timeStart := time.Now()

	seqs, err := sequence.ReadFASTAFiles(files)
	if err != nil {
		return err
	}
	total := pairwise.PairCount(len(seqs))
	log.Infof("%d sequences read from %d file(s), %d pairs to align", len(seqs), len(files), total)
	if total == 0 {
		log.Warning("fewer than two sequences, nothing to align")
	}

	summary := getFlagBool(cmd, "summary")
	if summary && len(seqs) > 0 {
		s, err := stats.FromSequences(seqs)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), s)
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	out, err := report.Open(cfg.Output.File, cfg.Output.CompressionLevel)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.Close(); err == nil && e != nil {
			err = errors.Wrap(e, "close output")
		}
	}()
	w := report.NewWriter(out, format)

	popts := pairwise.Options{
		Mode:            cfg.Mode(),
		Threads:         opt.NumCPUs,
		KmerSize:        cfg.Prefilter.K,
		MaxKmerDistance: cfg.Prefilter.MaxDistance,
	}

	var pbs *mpb.Progress
	var bar *mpb.Bar
	if cfg.Align.Progress && !opt.Quiet && total > 0 {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar = pbs.AddBar(int64(total),
			mpb.PrependDecorators(
				decor.Name("aligned pairs: ", decor.WC{W: len("aligned pairs: "), C: decor.DindentRight}),
				decor.Name("", decor.WCSyncSpaceR),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.EwmaETA(decor.ET_STYLE_GO, 10),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)
		last := time.Now()
		popts.Progress = func(int) {
			now := time.Now()
			bar.EwmaIncrBy(1, now.Sub(last))
			last = now
		}
	}

	hist := getFlagString(cmd, "hist")
	keep := summary || hist != ""
	var results []*pairwise.Result

	err = pairwise.Run(cmd.Context(), seqs, popts, func(r *pairwise.Result) error {
		if keep {
			results = append(results, r)
		}
		return w.Write(r)
	})
	if pbs != nil {
		if err != nil {
			bar.Abort(false)
		}
		pbs.Wait()
	}
	if err != nil {
		return err
	}

	if summary {
		if err = report.WriteSummary(cmd.ErrOrStderr(), results); err != nil {
			return err
		}
	}
	if hist != "" {
		if err = report.Histogram(results, hist); err != nil {
			return err
		}
		log.Infof("histograms saved to %s", hist)
	}

	log.Infof("elapsed time: %s", time.Since(timeStart))
	return nil
}
