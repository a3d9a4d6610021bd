// Command compseq-server provides a REST API for pairwise protein alignment.
//
// Usage:
//
//	compseq-server [options]
//
// Options:
//
//	--config   Config file in TOML, YAML or JSON format
//	--host     Host to bind to (default: all interfaces)
//	--port     Port to listen on (default: 8080)
//	--threads  Alignment workers of a pairwise request (default: all CPUs)
//	--log      Also write log messages to this file
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/aria-lang/compseq-go/api"
	"github.com/aria-lang/compseq-go/internal/applog"
	"github.com/aria-lang/compseq-go/internal/config"
)

var log = applog.Log

func main() {
	fs := pflag.NewFlagSet("compseq-server", pflag.ExitOnError)
	configFile := fs.StringP("config", "c", "", "Config file in TOML, YAML or JSON format.")
	fs.String("host", "", "Host to bind to.")
	fs.IntP("port", "p", 8080, "Port to listen on.")
	fs.IntP("threads", "j", 0, "Alignment workers of a pairwise request, 0 for all CPUs.")
	fs.Int("timeout", 60, "Request timeout in seconds.")
	quiet := fs.Bool("quiet", false, "Only log warnings and errors.")
	verbose := fs.Bool("verbose", false, "Log debug information.")
	logFile := fs.String("log", "", "Also write log messages to this file.")
	fs.Parse(os.Args[1:])

	closer, err := applog.SetupCLI(*quiet, *verbose, *logFile)
	checkError(err)
	defer closer.Close()

	cfg, err := loadConfig(fs, *configFile)
	checkError(err)

	threads := cfg.Align.Threads
	if threads == 0 {
		threads = runtime.NumCPU()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	timeout := time.Duration(cfg.Server.Timeout) * time.Second
	server := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(cfg, threads),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("server is shutting down ...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			log.Errorf("could not gracefully shutdown: %s", err)
		}
		close(done)
	}()

	log.Infof("compseq API v%s listening on http://%s (%d alignment workers)", config.Version, addr, threads)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		checkError(errors.Wrapf(err, "listen on %s", addr))
	}

	<-done
	log.Info("server stopped")
}

// loadConfig merges defaults, the config file, COMPSEQ_* environment
// variables and the command line flags.
func loadConfig(fs *pflag.FlagSet, file string) (*config.Config, error) {
	v := config.New()
	if err := config.ReadFile(v, file); err != nil {
		return nil, err
	}
	for flag, key := range map[string]string{
		"host":    "server.host",
		"port":    "server.port",
		"timeout": "server.timeout",
		"threads": "align.threads",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, errors.Wrapf(err, "bind flag --%s", flag)
		}
	}
	return config.Unmarshal(v)
}

func checkError(err error) {
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
