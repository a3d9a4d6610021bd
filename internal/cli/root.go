// Package cli is the command line interface of compseq.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aria-lang/compseq-go/internal/config"
)

// NewRootCommand builds the compseq command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "compseq",
		Short: "Pairwise protein alignment with identity and similarity",
		Long: fmt.Sprintf(`compseq v%s

Global and local pairwise alignment of protein sequences with affine gaps
over BLOSUM62, reporting percent identity and percent similarity for every
distinct pair of input sequences.
`, config.Version),
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.IntP("threads", "j", 0, "Number of CPUs to use, 0 for all.")
	pf.Bool("quiet", false, "Only print warnings and errors.")
	pf.Bool("verbose", false, "Print debug information.")
	pf.String("log", "", "Also write log messages to this file.")
	pf.StringP("config", "c", "", "Config file in TOML, YAML or JSON format.")

	root.AddCommand(
		newAlignCommand(),
		newPairCommand(),
		newConfigCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command line and exits with status 1 on error.
// SIGINT and SIGTERM cancel a running alignment.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	checkError(err)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "compseq v%s\n", config.Version)
		},
	}
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML

Settings come from, in decreasing priority: command line flags, COMPSEQ_*
environment variables (e.g. COMPSEQ_ALIGN_MODE), the --config file and
the built-in defaults. The output can be used as a config file.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opt, err := getOptions(cmd)
			if err != nil {
				return err
			}
			defer opt.Close()

			data, err := opt.Config.TOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	return cmd
}
