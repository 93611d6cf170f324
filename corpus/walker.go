package corpus

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/log"

	"github.com/eth2030/ethcorpus/metrics"
)

// Metric names recorded by Walker.
const (
	MetricFiles     = "corpus/files"
	MetricDecoded   = "corpus/decoded"
	MetricSkipped   = "corpus/skipped"
	MetricEntrySize = "corpus/entry_size"

	MetricKindPrefix = "corpus/kind/"
)

// KindMetric returns the name of the counter tracking decoded records of k.
func KindMetric(k Kind) string { return MetricKindPrefix + k.String() }

// Walker reads every entry of a corpus directory and prints the decoded
// summary. It is not safe for concurrent use.
type Walker struct {
	out     io.Writer
	logger  log.Logger
	metrics *metrics.Registry

	// Seed appends the ethash seed to every decoded line.
	Seed bool
}

// NewWalker creates a Walker printing to out. A nil logger falls back to the
// root logger and a nil registry to a private one.
func NewWalker(out io.Writer, logger log.Logger, reg *metrics.Registry) *Walker {
	if logger == nil {
		logger = log.Root()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Walker{out: out, logger: logger, metrics: reg}
}

// Metrics returns the registry the walker records into.
func (w *Walker) Metrics() *metrics.Registry { return w.metrics }

// Walk prints the directory banner, one progress line per entry and, once
// every entry has been read, the concatenated summary lines. Malformed test
// cases are skipped; any I/O failure aborts the walk.
func (w *Walker) Walk(dir string) error {
	if _, err := fmt.Fprintf(w.out, "Corpus dir: %s\n", dir); err != nil {
		return fmt.Errorf("write banner: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read corpus dir: %w", err)
	}

	var output strings.Builder
	for _, entry := range entries {
		name := entry.Name()
		if _, err := fmt.Fprintf(w.out, "Test: %s\n", name); err != nil {
			return fmt.Errorf("write progress: %w", err)
		}

		data, err := readTestCase(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		output.WriteString(w.decode(name, data))
	}

	if _, err := fmt.Fprintln(w.out, output.String()); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

// readTestCase loads the whole file, releasing the handle before returning.
func readTestCase(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open test case: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read test case: %w", err)
	}
	return data, nil
}

func (w *Walker) decode(name string, data []byte) string {
	w.metrics.Counter(MetricFiles).Inc()
	w.metrics.Histogram(MetricEntrySize).Observe(int64(len(data)))

	rec, err := Parse(data)
	if err != nil {
		w.metrics.Counter(MetricSkipped).Inc()
		w.logger.Trace("Skipping test case", "name", name, "size", humanize.Bytes(uint64(len(data))), "err", err)
		return ""
	}
	w.metrics.Counter(MetricDecoded).Inc()
	w.metrics.Counter(KindMetric(rec.Kind)).Inc()
	w.logger.Debug("Decoded test case", "name", name, "size", humanize.Bytes(uint64(len(data))),
		"kind", rec.Kind.String(), "nonce", rec.Nonce.Uint64())

	if w.Seed {
		return rec.SeedLine()
	}
	return rec.Line()
}
