package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

// Config holds the resolved command-line configuration.
type Config struct {
	CorpusDir string
	Verbosity int
	Seed      bool
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{Verbosity: 3}
}

var errNoCorpusDir = errors.New("corpus_dir is required")

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.CorpusDir == "" {
		return errNoCorpusDir
	}
	if c.Verbosity < 0 || c.Verbosity > 5 {
		return fmt.Errorf("invalid verbosity %d: must be 0-5", c.Verbosity)
	}
	return nil
}

var (
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Value: DefaultConfig().Verbosity,
		Usage: "Log level 0-5 (0-1=error, 5=trace)",
	}
	seedFlag = &cli.BoolFlag{
		Name:  "seed",
		Usage: "Append the ethash seed to every decoded line",
	}
)

// configFromContext builds a Config from parsed flags and the single
// positional corpus_dir argument.
func configFromContext(c *cli.Context) (Config, error) {
	cfg := DefaultConfig()
	switch c.NArg() {
	case 0:
		return cfg, errNoCorpusDir
	case 1:
		cfg.CorpusDir = c.Args().First()
	default:
		return cfg, fmt.Errorf("expected one corpus_dir after the flags, got %d arguments", c.NArg())
	}
	cfg.Verbosity = c.Int(verbosityFlag.Name)
	cfg.Seed = c.Bool(seedFlag.Name)
	return cfg, cfg.Validate()
}

func verbosityToLevel(verbosity int) slog.Level {
	switch {
	case verbosity <= 1:
		return slog.LevelError
	case verbosity == 2:
		return slog.LevelWarn
	case verbosity == 3:
		return slog.LevelInfo
	case verbosity == 4:
		return slog.LevelDebug
	default:
		return log.LevelTrace
	}
}

// newLogger returns a terminal logger writing to w, coloured only when w is
// an interactive terminal.
func newLogger(w io.Writer, verbosity int) log.Logger {
	return log.NewLogger(log.NewTerminalHandlerWithLevel(w, verbosityToLevel(verbosity), useColor(w)))
}

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	tty := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return tty && os.Getenv("TERM") != "dumb"
}
