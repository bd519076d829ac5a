package ui

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestSanitize_StripsEscapesAndControls(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"red\x1b[31mtext\x1b[0m", "redtext"},
		{"two\nlines", "two lines"},
		{"tab\there", "tab here"},
		{"bell\a", "bell "},
	}
	for _, tc := range cases {
		if got := sanitize(tc.in); got != tc.want {
			t.Fatalf("sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  short  ", 10); got != "short" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Fatalf("truncate long = %q, want %q", got, "abcd…")
	}
	if got := truncate("anything", 0); got != "" {
		t.Fatalf("truncate zero width = %q", got)
	}
}

func TestTruncateMiddle_KeepsBothEnds(t *testing.T) {
	got := truncateMiddle("https://img.example.com/products/42/large.png", 20)
	if w := runewidth.StringWidth(got); w > 20 {
		t.Fatalf("width = %d, want <= 20 (%q)", w, got)
	}
	if got[:5] != "https" {
		t.Fatalf("start lost: %q", got)
	}
	if got[len(got)-4:] != ".png" {
		t.Fatalf("end lost: %q", got)
	}
}

func TestFit_PadsToExactWidth(t *testing.T) {
	for _, in := range []string{"", "ab", "a much longer value", "日本語のタイトル"} {
		if got := runewidth.StringWidth(fit(in, 8)); got != 8 {
			t.Fatalf("fit(%q, 8) width = %d", in, got)
		}
		if got := runewidth.StringWidth(fitRight(in, 8)); got != 8 {
			t.Fatalf("fitRight(%q, 8) width = %d", in, got)
		}
	}
	if got := fitRight("9.5", 5); got != "  9.5" {
		t.Fatalf("fitRight = %q", got)
	}
}
