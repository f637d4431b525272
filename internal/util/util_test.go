package util

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty input", input: "", expected: ""},
		{name: "single line", input: "hello world", expected: "hello world"},
		{name: "trims and joins lines", input: "  first line \n second line  ", expected: "first line second line"},
		{name: "drops duplicate lines", input: "repeated\nrepeated\nunique", expected: "repeated unique"},
		{name: "drops single character fragments", input: "a\nI\nreal content", expected: "real content"},
		{name: "collapses internal whitespace", input: "too   many\tspaces", expected: "too many spaces"},
		{name: "windows line endings", input: "first\r\nsecond", expected: "first second"},
		{name: "whitespace only", input: "   \n \t \n", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CleanText(tt.input); got != tt.expected {
				t.Fatalf("CleanText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCalculateChecksum(t *testing.T) {
	t.Parallel()

	// sha256("hello") is a well known vector.
	got, err := CalculateChecksum(strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("CalculateChecksum returned error: %v", err)
	}

	expected := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != expected {
		t.Fatalf("CalculateChecksum = %s, want %s", got, expected)
	}

	same, err := CalculateChecksum(strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("CalculateChecksum returned error: %v", err)
	}
	if same != got {
		t.Fatal("checksum should be deterministic for identical input")
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "zero bytes", bytes: 0, expected: "0 B"},
		{name: "bytes under kilobyte", bytes: 512, expected: "512 B"},
		{name: "exact kilobyte", bytes: 1024, expected: "1.0 KB"},
		{name: "fractional kilobyte", bytes: 1536, expected: "1.5 KB"},
		{name: "megabyte", bytes: 1024 * 1024, expected: "1.0 MB"},
		{name: "upload limit", bytes: 10 * 1024 * 1024, expected: "10.0 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatBytes(tt.bytes); got != tt.expected {
				t.Fatalf("FormatBytes(%d) = %s, want %s", tt.bytes, got, tt.expected)
			}
		})
	}
}
