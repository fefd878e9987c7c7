// Package parser converts raw activity file content (FIT binary telemetry,
// GPX tracks, CSV exports) into the canonical activity record. All parse
// functions are pure: bytes in, record or typed error out.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"trainlog/internal/activity"
)

// Format identifies a supported activity file format.
type Format string

const (
	FormatFIT     Format = "fit"
	FormatGPX     Format = "gpx"
	FormatCSV     Format = "csv"
	FormatUnknown Format = "unknown"
)

// ErrUnsupportedFormat is returned when neither the file extension nor the
// content identifies a supported format.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrNoTrack is returned for GPX content without at least one track point.
var ErrNoTrack = errors.New("no track found")

// ErrEmptyFile is returned for CSV content without a data row.
var ErrEmptyFile = errors.New("empty file")

// ParseError is a structural parse failure identifying the format and the
// extraction stage that failed. Malformed input is always fatal to the single
// parse; nothing is partially recovered.
type ParseError struct {
	Format Format
	Stage  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s file: %s: %v", e.Format, e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse routes content to the right parser. The filename extension decides
// first; when it is missing or unknown the content is sniffed.
func Parse(filename string, data []byte) (*activity.Activity, error) {
	format := FormatUnknown
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".fit":
		format = FormatFIT
	case ".gpx":
		format = FormatGPX
	case ".csv":
		format = FormatCSV
	default:
		format = DetectFormat(data)
	}

	switch format {
	case FormatFIT:
		return ParseFIT(data)
	case FormatGPX:
		return ParseGPX(data)
	case FormatCSV:
		return ParseCSV(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

// DetectFormat sniffs the file content. FIT files carry a ".FIT" magic at
// byte 8 of the header, GPX is XML with a gpx root element, and anything
// starting with a plausible comma-separated header line is treated as CSV.
func DetectFormat(data []byte) Format {
	if len(data) >= 12 && bytes.Equal(data[8:12], []byte(".FIT")) {
		return FormatFIT
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n\xef\xbb\xbf")
	if bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<gpx")) {
		if bytes.Contains(head, []byte("<gpx")) || bytes.Contains(head, []byte("topografix.com/GPX")) {
			return FormatGPX
		}
		return FormatUnknown
	}

	if line, _, _ := bytes.Cut(trimmed, []byte("\n")); bytes.Contains(line, []byte(",")) {
		return FormatCSV
	}

	return FormatUnknown
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
