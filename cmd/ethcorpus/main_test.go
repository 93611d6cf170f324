package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/log"
)

func writeTestCase(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// fullTestCase is a 41-byte kind 1 test case with a 0xaa header and the
// logical nonce 0x0011223344556677 stored little-endian.
func fullTestCase() []byte {
	buf := []byte{1}
	buf = append(buf, bytes.Repeat([]byte{0xaa}, 32)...)
	return append(buf, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11, 0x00)
}

func TestRun_DecodesCorpus(t *testing.T) {
	dir := t.TempDir()
	writeTestCase(t, dir, "full", fullTestCase())
	writeTestCase(t, dir, "short", make([]byte, 10))

	var stdout, stderr bytes.Buffer
	if code := run([]string{dir}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, stderr.String())
	}

	out := stdout.String()
	if !strings.HasPrefix(out, "Corpus dir: "+dir+"\n") {
		t.Errorf("stdout = %q, want Corpus dir banner first", out)
	}
	for _, want := range []string{"Test: full\n", "Test: short\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q", want)
		}
	}
	record := "k: 1, h: " + strings.Repeat("aa", 32) + ", n: 0011223344556677\n"
	if strings.Count(out, "k: ") != 1 || !strings.HasSuffix(out, record+"\n") {
		t.Errorf("stdout = %q, want exactly one record %q at the end", out, record)
	}
	if !strings.Contains(stderr.String(), "Corpus scan complete") {
		t.Errorf("stderr = %q, want scan summary", stderr.String())
	}
}

func TestRun_EmptyCorpus(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--verbosity", "0", dir}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if want := "Corpus dir: " + dir + "\n\n"; stdout.String() != want {
		t.Fatalf("stdout = %q, want %q", stdout.String(), want)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want nothing at verbosity 0", stderr.String())
	}
}

func TestRun_Seed(t *testing.T) {
	dir := t.TempDir()
	writeTestCase(t, dir, "full", fullTestCase())

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-seed", dir}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), ", n: 0011223344556677, s: ") {
		t.Fatalf("stdout = %q, want seed suffix", stdout.String())
	}
}

func TestRun_UsageErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"two dirs", []string{dir, dir}},
		{"unknown flag", []string{"--bogus", dir}},
		{"verbosity too high", []string{"--verbosity", "6", dir}},
		{"verbosity negative", []string{"--verbosity", "-1", dir}},
	}
	for _, tt := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(tt.args, &stdout, &stderr); code != 2 {
			t.Errorf("%s: exit code = %d, want 2", tt.name, code)
		}
		if !strings.Contains(stderr.String(), usageLine) {
			t.Errorf("%s: stderr = %q, want usage line", tt.name, stderr.String())
		}
		if strings.Contains(stdout.String(), "Corpus dir:") {
			t.Errorf("%s: scan should not start", tt.name)
		}
	}
}

func TestRun_MissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nope")
	var stdout, stderr bytes.Buffer
	if code := run([]string{dir}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if stdout.String() != "Corpus dir: "+dir+"\n" {
		t.Errorf("stdout = %q, want only the banner", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Corpus scan failed") {
		t.Errorf("stderr = %q, want failure log", stderr.String())
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), version) {
		t.Fatalf("stdout = %q, want version %q", stdout.String(), version)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default with dir", Config{CorpusDir: "x", Verbosity: 3}, false},
		{"silent", Config{CorpusDir: "x", Verbosity: 0}, false},
		{"trace", Config{CorpusDir: "x", Verbosity: 5}, false},
		{"no dir", Config{Verbosity: 3}, true},
		{"verbosity 6", Config{CorpusDir: "x", Verbosity: 6}, true},
	}
	for _, tt := range tests {
		if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{0, slog.LevelError},
		{1, slog.LevelError},
		{2, slog.LevelWarn},
		{3, slog.LevelInfo},
		{4, slog.LevelDebug},
		{5, log.LevelTrace},
	}
	for _, tt := range tests {
		if got := verbosityToLevel(tt.verbosity); got != tt.want {
			t.Errorf("verbosityToLevel(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestUseColor_NonTerminal(t *testing.T) {
	if useColor(&bytes.Buffer{}) {
		t.Fatal("a buffer is never a terminal")
	}
}

func TestRun_CorpusNamedLikeHelp(t *testing.T) {
	parent := t.TempDir()
	for _, name := range []string{"h", "help"} {
		if err := os.Mkdir(filepath.Join(parent, name), 0o755); err != nil {
			t.Fatal(err)
		}
		writeTestCase(t, filepath.Join(parent, name), "full", fullTestCase())
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(parent); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	for _, name := range []string{"h", "help"} {
		var stdout, stderr bytes.Buffer
		if code := run([]string{name}, &stdout, &stderr); code != 0 {
			t.Fatalf("%s: exit code = %d, want 0 (stderr: %s)", name, code, stderr.String())
		}
		out := stdout.String()
		if !strings.HasPrefix(out, "Corpus dir: "+name+"\n") {
			t.Errorf("%s: stdout = %q, want corpus banner", name, out)
		}
		if strings.Count(out, "k: 1, h: ") != 1 {
			t.Errorf("%s: stdout = %q, want one decoded record", name, out)
		}
	}
}

func TestRun_FlagsAfterCorpusDir(t *testing.T) {
	dir := t.TempDir()
	writeTestCase(t, dir, "full", fullTestCase())

	var stdout, stderr bytes.Buffer
	if code := run([]string{dir, "--seed"}, &stdout, &stderr); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "after the flags") || !strings.Contains(stderr.String(), usageLine) {
		t.Errorf("stderr = %q, want flag-order error and usage", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", stdout.String())
	}
}

func TestRun_VerbosityZeroReportsErrors(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nope")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--verbosity", "0", dir}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Corpus scan failed") {
		t.Errorf("stderr = %q, want error log at verbosity 0", stderr.String())
	}
	if !strings.Contains(verbosityFlag.Usage, "0-1=error") {
		t.Errorf("verbosity usage = %q, want it to state 0-1=error", verbosityFlag.Usage)
	}
}
