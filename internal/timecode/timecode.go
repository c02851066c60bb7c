// Package timecode parses and formats HH:MM:SS[.mmm] positions used when
// cutting clips out of a source video.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Pattern describes the accepted input shape, echoed in parse errors.
const Pattern = "HH:MM:SS or HH:MM:SS.mmm"

// ParseError reports a rejected time code along with the offending input.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time code %q: %s (expected %s)", e.Input, e.Reason, Pattern)
}

// Parse converts a HH:MM:SS[.mmm] string into seconds. Hours are bounded to
// [0,23], minutes and seconds to [0,59], milliseconds to [0,999]. Fractional
// digits beyond three are truncated, shorter fractions are zero-padded.
func Parse(text string) (float64, error) {
	base := text
	var fraction string
	if dot := strings.IndexByte(text, '.'); dot >= 0 {
		base = text[:dot]
		fraction = text[dot+1:]
	}

	segments := strings.Split(base, ":")
	if len(segments) != 3 {
		return 0, &ParseError{Input: text, Reason: fmt.Sprintf("expected 3 segments, got %d", len(segments))}
	}

	hours, err := parseSegment(text, "hours", segments[0], 23)
	if err != nil {
		return 0, err
	}
	minutes, err := parseSegment(text, "minutes", segments[1], 59)
	if err != nil {
		return 0, err
	}
	seconds, err := parseSegment(text, "seconds", segments[2], 59)
	if err != nil {
		return 0, err
	}

	millis := 0
	if dot := strings.IndexByte(text, '.'); dot >= 0 {
		millis, err = parseMillis(text, fraction)
		if err != nil {
			return 0, err
		}
	}

	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

func parseSegment(input, name, raw string, max int) (int, error) {
	if raw == "" {
		return 0, &ParseError{Input: input, Reason: name + " segment is empty"}
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ParseError{Input: input, Reason: fmt.Sprintf("%s segment %q is not numeric", name, raw)}
	}
	if value < 0 || value > max {
		return 0, &ParseError{Input: input, Reason: fmt.Sprintf("%s %d out of range [0,%d]", name, value, max)}
	}
	return value, nil
}

func parseMillis(input, raw string) (int, error) {
	if raw == "" {
		return 0, &ParseError{Input: input, Reason: "fractional part is empty"}
	}
	padded := raw
	if len(padded) > 3 {
		padded = padded[:3]
	}
	for len(padded) < 3 {
		padded += "0"
	}
	value, err := strconv.Atoi(padded)
	if err != nil || value < 0 {
		return 0, &ParseError{Input: input, Reason: fmt.Sprintf("fractional part %q is not numeric", raw)}
	}
	return value, nil
}

// Format renders seconds as canonical HH:MM:SS.mmm. Values are clamped to
// zero; milliseconds are rounded to the nearest unit.
func Format(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	totalMillis := int64(math.Round(seconds * 1000))
	millis := totalMillis % 1000
	totalSeconds := totalMillis / 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		totalSeconds/3600,
		(totalSeconds%3600)/60,
		totalSeconds%60,
		millis)
}
