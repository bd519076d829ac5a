package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestParse_ZapLine(t *testing.T) {
	line := `{"level":"warn","ts":"2025-10-08T21:01:05.123Z","logger":"shopkeep","msg":"update not confirmed, applied locally","id":"7","status":500}`
	e := Parse(line)

	if e.Level != "warn" || e.Logger != "shopkeep" || e.Message != "update not confirmed, applied locally" {
		t.Fatalf("Parse() = %+v", e)
	}
	want := time.Date(2025, 10, 8, 21, 1, 5, 123000000, time.UTC)
	if !e.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", e.Time, want)
	}
	if e.Fields["id"] != "7" || e.Fields["status"] != float64(500) {
		t.Fatalf("Fields = %v", e.Fields)
	}

	got := Format(e)
	if !strings.HasSuffix(got, "WARN  update not confirmed, applied locally id=7 status=500") {
		t.Fatalf("Format() = %q", got)
	}
}

func TestParse_PlainLine(t *testing.T) {
	for _, line := range []string{"plain text", "{not json"} {
		e := Parse(line)
		if e.Message != line || e.Level != "" {
			t.Fatalf("Parse(%q) = %+v", line, e)
		}
		if Format(e) != line {
			t.Fatalf("Format(%q) = %q", line, Format(e))
		}
	}
}

func TestParseLinesAndAtLeast(t *testing.T) {
	lines := []string{
		`{"level":"debug","msg":"request"}`,
		"",
		`{"level":"info","msg":"catalog loaded"}`,
		`{"level":"error","msg":"boom"}`,
		"stray output",
	}
	entries := ParseLines(lines)
	if len(entries) != 4 {
		t.Fatalf("ParseLines() returned %d entries, want 4", len(entries))
	}

	kept := AtLeast(entries, "info")
	var msgs []string
	for _, e := range kept {
		msgs = append(msgs, e.Message)
	}
	want := []string{"catalog loaded", "boom", "stray output"}
	if !reflect.DeepEqual(msgs, want) {
		t.Fatalf("AtLeast(info) = %v, want %v", msgs, want)
	}
	if len(AtLeast(entries, "bogus")) != 4 {
		t.Fatalf("unknown level should keep everything")
	}
}
