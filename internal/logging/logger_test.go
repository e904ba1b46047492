package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: Debug},
		{in: " INFO ", want: Info},
		{in: "", want: Info},
		{in: "warning", want: Warn},
		{in: "error", want: Error},
		{in: "trace", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) err = %v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != JSON {
		t.Fatalf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != Text {
		t.Fatalf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Info, JSON, &buf).With(Field{Key: "subsystem", Value: "dsp"})
	log.Debug("hidden")
	log.Warn("fallback", Field{Key: "bins", Value: 1}, Field{Key: "err", Value: errors.New("narrow")}, Field{Key: "", Value: "dropped"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if entry["level"] != "WARN" || entry["msg"] != "fallback" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["subsystem"] != "dsp" || entry["bins"] != float64(1) || entry["err"] != "narrow" {
		t.Fatalf("missing fields: %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatalf("missing time key: %v", entry)
	}
}

func TestTextOutput(t *testing.T) {
	var buf bytes.Buffer
	New(Debug, Text, &buf).Error("band missing", Field{Key: "band_hz", Value: 1e6})
	out := buf.String()
	if !strings.Contains(out, "ERROR") || !strings.Contains(out, "band missing") || !strings.Contains(out, "band_hz") {
		t.Fatalf("unexpected text output: %q", out)
	}
}

func TestDefaultAndNop(t *testing.T) {
	if Default() == nil {
		t.Fatalf("Default must never be nil")
	}
	Nop().With(Field{Key: "a", Value: 1}).Error("discarded")

	var buf bytes.Buffer
	l := New(Info, Text, &buf)
	SetDefault(l)
	SetDefault(nil)
	if Default() != l {
		t.Fatalf("SetDefault(nil) must keep the current logger")
	}
}
