// Package actions implements the Reporter port on top of GitHub Actions
// workflow commands and the $GITHUB_OUTPUT file.
package actions

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/ericfisherdev/stale-issues/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Reporter = (*Reporter)(nil)

// Reporter writes user-facing messages as workflow commands to out and
// publishes outputs to the file named by outputPath. When outputPath is
// empty, outputs are printed to out as name=value lines for local runs.
type Reporter struct {
	mu         sync.Mutex
	out        io.Writer
	outputPath string
	failed     bool
}

// NewReporter creates a Reporter. outputPath is normally $GITHUB_OUTPUT.
func NewReporter(out io.Writer, outputPath string) *Reporter {
	return &Reporter{out: out, outputPath: outputPath}
}

// Info prints an informational line.
func (r *Reporter) Info(msg string) {
	r.writeLine(msg)
}

// Warning prints a ::warning:: workflow command.
func (r *Reporter) Warning(msg string) {
	slog.Debug("warning reported", "message", msg)
	r.writeLine("::warning::" + escapeData(msg))
}

// Fail prints an ::error:: workflow command and marks the run as failed.
func (r *Reporter) Fail(msg string) {
	r.mu.Lock()
	r.failed = true
	r.mu.Unlock()
	r.writeLine("::error::" + escapeData(msg))
}

// Failed reports whether Fail has been called.
func (r *Reporter) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

// SetOutput publishes a named output. Non-string values are JSON encoded.
func (r *Reporter) SetOutput(name string, value any) error {
	encoded, err := encodeValue(value)
	if err != nil {
		return fmt.Errorf("encoding output %q: %w", name, err)
	}

	if r.outputPath == "" {
		r.writeLine(name + "=" + encoded)
		return nil
	}

	delimiter, err := newDelimiter()
	if err != nil {
		return err
	}
	if strings.Contains(name, delimiter) || strings.Contains(encoded, delimiter) {
		return fmt.Errorf("output %q collides with delimiter %q", name, delimiter)
	}

	f, err := os.OpenFile(r.outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, encoded, delimiter); err != nil {
		return fmt.Errorf("writing output %q: %w", name, err)
	}

	slog.Debug("output set", "name", name, "file", r.outputPath)
	return nil
}

func (r *Reporter) writeLine(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := fmt.Fprintln(r.out, line); err != nil {
		slog.Error("writing to output sink", "error", err)
	}
}

func encodeValue(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newDelimiter() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating output delimiter: %w", err)
	}
	return "ghadelimiter_" + hex.EncodeToString(buf), nil
}

// escapeData escapes a workflow command message.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}
