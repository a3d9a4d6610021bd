package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/iafan/cwalk"
	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"

	"github.com/aria-lang/compseq-go/internal/applog"
	"github.com/aria-lang/compseq-go/internal/config"
)

var log = applog.Log

// Options contains the global flags and the resolved configuration.
type Options struct {
	NumCPUs int
	Quiet   bool
	Verbose bool

	LogFile string

	Config *config.Config

	logCloser io.Closer
}

// Close releases the log file.
func (o *Options) Close() error {
	if o.logCloser == nil {
		return nil
	}
	return o.logCloser.Close()
}

// flag name -> config key
var flagKeys = [][2]string{
	{"threads", "align.threads"},
	{"mode", "align.mode"},
	{"progress", "align.progress"},
	{"out-file", "output.file"},
	{"format", "output.format"},
	{"compression-level", "output.compression-level"},
	{"kmer-size", "prefilter.kmer-size"},
	{"max-kmer-distance", "prefilter.max-kmer-distance"},
}

func getOptions(cmd *cobra.Command) (*Options, error) {
	quiet := getFlagBool(cmd, "quiet")
	verbose := getFlagBool(cmd, "verbose")
	logfile := getFlagString(cmd, "log")

	closer, err := applog.SetupCLI(quiet, verbose, logfile)
	if err != nil {
		return nil, err
	}
	opt := &Options{Quiet: quiet, Verbose: verbose, LogFile: logfile, logCloser: closer}

	v := config.New()
	if err = config.ReadFile(v, getFlagString(cmd, "config")); err != nil {
		opt.Close()
		return nil, err
	}
	for _, fk := range flagKeys {
		if f := cmd.Flags().Lookup(fk[0]); f != nil {
			if err = v.BindPFlag(fk[1], f); err != nil {
				opt.Close()
				return nil, errors.Wrapf(err, "bind flag --%s", fk[0])
			}
		}
	}
	if opt.Config, err = config.Unmarshal(v); err != nil {
		opt.Close()
		return nil, err
	}

	threads := opt.Config.Align.Threads
	if threads == 0 {
		threads = runtime.NumCPU()
	}
	sorts.MaxProcs = threads
	opt.NumCPUs = threads

	return opt, nil
}

func checkError(err error) {
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func getFlagString(cmd *cobra.Command, flag string) string {
	value, err := cmd.Flags().GetString(flag)
	checkError(err)
	return value
}

func getFlagStringSlice(cmd *cobra.Command, flag string) []string {
	value, err := cmd.Flags().GetStringSlice(flag)
	checkError(err)
	return value
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	value, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return value
}

func isStdin(file string) bool {
	return file == "-"
}

// inputFiles gathers the input FASTA files from positional arguments,
// --input, --infile-list and --in-dir, in that order.
func inputFiles(cmd *cobra.Command, args []string, threads int) ([]string, error) {
	files := append(getFlagStringSlice(cmd, "input"), args...)

	if list := getFlagString(cmd, "infile-list"); list != "" {
		listed, err := readFileList(list)
		if err != nil {
			return nil, errors.Wrapf(err, "read file list %s", list)
		}
		files = append(files, listed...)
	}

	if dir := getFlagString(cmd, "in-dir"); dir != "" {
		isDir, err := pathutil.IsDir(dir)
		if err != nil {
			return nil, errors.Wrapf(err, "check %s", dir)
		}
		if !isDir {
			return nil, fmt.Errorf("not a directory: %s", dir)
		}
		pattern, err := regexp.Compile(getFlagString(cmd, "pattern"))
		if err != nil {
			return nil, errors.Wrap(err, "--pattern")
		}
		found, err := getFileListFromDir(dir, pattern, threads)
		if err != nil {
			return nil, errors.Wrapf(err, "walk %s", dir)
		}
		sorts.Quicksort(sort.StringSlice(found))
		log.Infof("%d files found in %s", len(found), dir)
		files = append(files, found...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no input files given")
	}
	for _, file := range files {
		if isStdin(file) {
			continue
		}
		ok, err := pathutil.Exists(file)
		if err != nil {
			return nil, errors.Wrapf(err, "check %s", file)
		}
		if !ok {
			return nil, fmt.Errorf("file does not exist: %s", file)
		}
	}
	return files, nil
}

// readFileList reads one file name per line, skipping blank lines.
func readFileList(file string) ([]string, error) {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var files []string
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		files = append(files, line)
	}
	return files, scanner.Err()
}

func getFileListFromDir(path string, pattern *regexp.Regexp, threads int) ([]string, error) {
	files := make([]string, 0, 64)
	ch := make(chan string, threads)
	done := make(chan int)
	go func() {
		for file := range ch {
			files = append(files, file)
		}
		done <- 1
	}()

	cwalk.NumWorkers = threads
	err := cwalk.WalkWithSymlinks(path, func(_path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && pattern.MatchString(info.Name()) {
			ch <- filepath.Join(path, _path)
		}
		return nil
	})
	close(ch)
	<-done
	if err != nil {
		return nil, err
	}
	return files, nil
}
