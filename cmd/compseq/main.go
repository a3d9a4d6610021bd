// Command compseq aligns protein sequences pairwise and reports percent
// identity and similarity.
//
// Usage:
//
//	compseq [command] [flags]
//
// Commands:
//
//	align       Align every distinct pair of sequences in FASTA files
//	pair        Align two sequences given on the command line
//	config      Print the effective configuration as TOML
//	version     Show version information
package main

import "github.com/aria-lang/compseq-go/internal/cli"

func main() {
	cli.Execute()
}
