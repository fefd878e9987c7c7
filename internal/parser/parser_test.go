package parser

import (
	"errors"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	fitHeader := append([]byte{14, 0x10, 0x5f, 0x04, 0, 0, 0, 0}, []byte(".FIT")...)

	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"fit magic", append(fitHeader, 0xde, 0xad), FormatFIT},
		{"truncated fit header", []byte{14, 0x10}, FormatUnknown},
		{"gpx with declaration", []byte(`<?xml version="1.0"?><gpx></gpx>`), FormatGPX},
		{"gpx bare root", []byte(`<gpx creator="x"></gpx>`), FormatGPX},
		{"gpx with bom", append([]byte{0xef, 0xbb, 0xbf}, []byte(`<gpx></gpx>`)...), FormatGPX},
		{"xml that is not gpx", []byte(`<?xml version="1.0"?><tcx></tcx>`), FormatUnknown},
		{"csv header", []byte("date,type,duration\n2026-03-01,running,600\n"), FormatCSV},
		{"plain text", []byte("hello world\n"), FormatUnknown},
		{"empty", nil, FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.data); got != tt.want {
				t.Errorf("DetectFormat() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseRouting(t *testing.T) {
	t.Run("extension wins", func(t *testing.T) {
		// Content sniffs as CSV, but the .gpx extension routes it to the
		// GPX parser, which rejects it.
		_, err := Parse("ride.gpx", []byte("date,duration\n2026-03-01,600\n"))
		var perr *ParseError
		if !errors.As(err, &perr) || perr.Format != FormatGPX {
			t.Fatalf("error = %v, want GPX ParseError", err)
		}
	})

	t.Run("sniffed without extension", func(t *testing.T) {
		act, err := Parse("export", []byte("date,duration\n2026-03-01,600\n"))
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		if act.Duration != 600 {
			t.Errorf("duration = %d, want 600", act.Duration)
		}
	})

	t.Run("uppercase extension", func(t *testing.T) {
		act, err := Parse("EXPORT.CSV", []byte("date,duration\n2026-03-01,600\n"))
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		if act.Duration != 600 {
			t.Errorf("duration = %d, want 600", act.Duration)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := Parse("notes.txt", []byte("just some notes"))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
		}
	})
}
