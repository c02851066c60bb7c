package timecode

import (
	"errors"
	"strings"
	"testing"
)

func TestParseValid(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{"00:00:00", 0},
		{"00:00:30", 30},
		{"00:01:00", 60},
		{"01:00:00", 3600},
		{"23:59:59", 86399},
		{"00:00:10.500", 10.5},
		{"00:00:10.5", 10.5},
		{"00:00:10.05", 10.05},
		{"00:00:10.12345", 10.123},
		{"12:34:56.789", 12*3600 + 34*60 + 56 + 0.789},
	}
	for _, tc := range cases {
		got, err := Parse(tc.input)
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	inputs := []string{
		"",
		"10",
		"10:00",
		"1:2:3:4",
		"25:00:00",
		"00:60:00",
		"00:00:60",
		"aa:00:00",
		"00:bb:00",
		"00:00:cc",
		"00:00:10.",
		"00:00:10.xyz",
		"-1:00:00",
	}
	for _, input := range inputs {
		_, err := Parse(input)
		if err == nil {
			t.Errorf("Parse(%q) succeeded, want error", input)
			continue
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("Parse(%q) returned %T, want *ParseError", input, err)
			continue
		}
		if !strings.Contains(err.Error(), input) && input != "" {
			t.Errorf("Parse(%q) error does not echo input: %v", input, err)
		}
		if !strings.Contains(err.Error(), Pattern) {
			t.Errorf("Parse(%q) error does not name expected pattern: %v", input, err)
		}
	}
}

func TestParseHourOutOfRange(t *testing.T) {
	_, err := Parse("25:00:00")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if !strings.Contains(parseErr.Reason, "hours") {
		t.Fatalf("expected hours range reason, got %q", parseErr.Reason)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.000"},
		{10.5, "00:00:10.500"},
		{86399, "23:59:59.000"},
		{3661.25, "01:01:01.250"},
		{-5, "00:00:00.000"},
	}
	for _, tc := range cases {
		if got := Format(tc.seconds); got != tc.want {
			t.Errorf("Format(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestRoundTripCanonical(t *testing.T) {
	for _, canonical := range []string{
		"00:00:00.000",
		"00:00:10.500",
		"01:02:03.045",
		"23:59:59.999",
	} {
		seconds, err := Parse(canonical)
		if err != nil {
			t.Fatalf("Parse(%q): %v", canonical, err)
		}
		if got := Format(seconds); got != canonical {
			t.Errorf("Format(Parse(%q)) = %q", canonical, got)
		}
	}
}
