package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"clipvault/internal/catalog"
	"clipvault/internal/timecode"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

var statusTitle = cases.Title(language.Und)

func parseVideoID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid video id %q", arg)
	}
	return id, nil
}

func parseClipID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid clip id %q", arg)
	}
	return id, nil
}

// displayStatus renders a status value for table output, optionally
// colorized by outcome.
func displayStatus(status string, colorize bool) string {
	label := statusTitle.String(status)
	if !colorize {
		return label
	}
	switch status {
	case string(catalog.UploadStatusUploaded):
		return ansiGreen + label + ansiReset
	case string(catalog.UploadStatusFailed):
		return ansiRed + label + ansiReset
	case string(catalog.UploadStatusQueued), string(catalog.UploadStatusUploading):
		return ansiYellow + label + ansiReset
	default:
		return label
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatRange(start, end float64) string {
	return timecode.Format(start) + " - " + timecode.Format(end)
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
