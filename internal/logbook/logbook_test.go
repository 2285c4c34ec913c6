package logbook

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	dir := t.TempDir()
	book, err := New(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := book.Append(Entry{RunID: "run-" + string(rune('a'+i)), ModuleID: "term_plan", Status: StatusOK, Rows: i}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	lines, total := book.Tail(3)
	if total != 5 {
		t.Fatalf("total lines = %d, want 5", total)
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"run=run-c", "run=run-d", "run=run-e"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestEntryLineFormat(t *testing.T) {
	e := Entry{
		Time:     time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC),
		RunID:    "r1",
		ModuleID: "term_plan",
		Status:   StatusFailed,
		Message:  "Test case generation failed.",
	}
	want := `2024-03-09T14:05:07Z FAILED term_plan run=r1 rows=0 msg="Test case generation failed."`
	if got := e.line(); got != want {
		t.Fatalf("line = %q, want %q", got, want)
	}

	e.Status, e.Rows, e.Message, e.Paths = StatusOK, 12, "", []string{"a.xlsx", "a.csv"}
	if got := e.line(); !strings.HasSuffix(got, "rows=12 files=a.xlsx,a.csv") {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestTailMissingFile(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "none", FileName))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	if lines, total := book.Tail(10); lines != nil || total != 0 {
		t.Fatalf("expected empty tail, got %v %d", lines, total)
	}
}
