// Command ethcorpus prints a summary line for every recognised test case in
// an ethash fuzz corpus directory.
//
// Usage:
//
//	ethcorpus [flags] <corpus_dir>
//
// Flags must come before corpus_dir; anything after it is treated as an
// extra positional argument and rejected.
//
// Flags:
//
//	--verbosity  Log level 0-5, 0-1=error (default: 3)
//	--seed       Append the ethash seed to every decoded line
//	--version    Print version and exit
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/eth2030/ethcorpus/corpus"
	"github.com/eth2030/ethcorpus/metrics"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

const usageLine = "Usage: ethcorpus [flags] <corpus_dir>"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	err := app.Run(append([]string{app.Name}, args...))
	if err == nil {
		return 0
	}

	var exit cli.ExitCoder
	if !errors.As(err, &exit) {
		fmt.Fprintf(stderr, "Error: %v\n%s\n", err, usageLine)
		return 2
	}
	if msg := exit.Error(); msg != "" {
		fmt.Fprintf(stderr, "Error: %s\n", msg)
		if exit.ExitCode() == 2 {
			fmt.Fprintln(stderr, usageLine)
		}
	}
	return exit.ExitCode()
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "ethcorpus",
		Usage:     "Decode an ethash fuzz corpus",
		ArgsUsage: "<corpus_dir>",
		Version:   fmt.Sprintf("%s (commit %s)", version, commit),
		Flags:     []cli.Flag{verbosityFlag, seedFlag},
		Writer:    stdout,
		ErrWriter: stderr,

		// corpus_dir may be named "help" or "h".
		HideHelpCommand: true,
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return cli.Exit(err.Error(), 2)
		},
		// Exit codes are translated by run; never call os.Exit from here.
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(c *cli.Context) error {
			cfg, err := configFromContext(c)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			return scan(cfg, stdout, stderr)
		},
	}
}

func scan(cfg Config, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, cfg.Verbosity)
	logger.Debug("Scanning corpus", "dir", cfg.CorpusDir, "seed", cfg.Seed)

	reg := metrics.NewRegistry()
	w := corpus.NewWalker(stdout, logger, reg)
	w.Seed = cfg.Seed
	if err := w.Walk(cfg.CorpusDir); err != nil {
		logger.Error("Corpus scan failed", "dir", cfg.CorpusDir, "err", err)
		return cli.Exit("", 1)
	}

	size := reg.Histogram(corpus.MetricEntrySize).Stats()
	logger.Info("Corpus scan complete",
		"dir", cfg.CorpusDir,
		"files", reg.Counter(corpus.MetricFiles).Value(),
		"decoded", reg.Counter(corpus.MetricDecoded).Value(),
		"skipped", reg.Counter(corpus.MetricSkipped).Value(),
		"bytes", humanize.Bytes(uint64(size.Sum)),
	)
	for _, name := range reg.CounterNames() {
		if kind, ok := strings.CutPrefix(name, corpus.MetricKindPrefix); ok {
			logger.Debug("Decoded by kind", "kind", kind, "count", reg.Counter(name).Value())
		}
	}
	return nil
}
