// Package logbook keeps a plain-text history of generation runs in
// .casegen/runs.log, one line per attempt.
package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileName is the logbook file inside the project's .casegen directory.
const FileName = "runs.log"

// Status is the outcome of one run.
type Status string

const (
	StatusOK     Status = "OK"
	StatusFailed Status = "FAILED"
)

// Entry describes one generation attempt.
type Entry struct {
	Time     time.Time
	RunID    string
	ModuleID string
	Status   Status
	Rows     int
	// Paths lists the export files; empty for failed runs.
	Paths []string
	// Message is the operator-facing failure message.
	Message string
}

func (e Entry) line() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-6s %s run=%s rows=%d",
		e.Time.UTC().Format(time.RFC3339),
		string(e.Status),
		e.ModuleID,
		e.RunID,
		e.Rows,
	)
	if len(e.Paths) > 0 {
		fmt.Fprintf(&b, " files=%s", strings.Join(e.Paths, ","))
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		fmt.Fprintf(&b, " msg=%q", msg)
	}
	return b.String()
}

// Logbook appends run entries to a text file.
type Logbook struct {
	path string
	mu   sync.Mutex
}

// New creates a logbook that writes to the provided path.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &Logbook{path: path}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes e as a single line. A zero Time is stamped with now.
func (l *Logbook) Append(e Entry) error {
	if l == nil {
		return nil
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("logbook: open %s: %w", l.path, err)
	}
	defer file.Close()
	if _, err := file.WriteString(e.line() + "\n"); err != nil {
		return fmt.Errorf("logbook: append: %w", err)
	}
	return nil
}

// Tail returns up to maxLines of the most recent entries along with the total
// number of entries recorded.
func (l *Logbook) Tail(maxLines int) ([]string, int) {
	if l == nil || maxLines <= 0 {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil, 0
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	total := len(lines)
	if total > maxLines {
		lines = lines[total-maxLines:]
	}
	return lines, total
}
