package iqfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name    string
		want    Tags
		key     string
		wantErr bool
	}{
		{name: "capture_tx_00_rx_01_run_03.dat", want: Tags{TX: "tx_00", RX: "rx_01", Run: "run_03"}, key: "tx_00_rx_01_run_03"},
		{name: "rx_02.dat", want: Tags{RX: "rx_02"}, key: "rx_02"},
		{name: "tx_01_rx_00.dat", want: Tags{TX: "tx_01", RX: "rx_00"}, key: "tx_01_rx_00"},
		{name: "notes.dat", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseTags(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want || got.Key() != tt.key {
			t.Fatalf("%s: got %+v (%s)", tt.name, got, got.Key())
		}
	}
}

func TestLoadDirAndChannels(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, v complex128) {
		t.Helper()
		if err := WriteFile(filepath.Join(dir, name), []complex128{v, v}, Int16); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("tx_00_rx_00_run_00.dat", 0.5)
	write("tx_00_rx_01_run_00.dat", 0.25i)
	write("tx_01_rx_01_run_00.dat", -0.5)
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "calibration.dat"), make([]byte, 4), 0o644); err != nil {
		t.Fatal(err)
	}

	recs, err := LoadDir(dir, Options{Format: Int16, Offset: 1})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var keys []string
	for _, r := range recs {
		keys = append(keys, r.Tags.Key())
		if len(r.Samples) != 1 {
			t.Fatalf("%s: offset not applied, %d samples", r.Path, len(r.Samples))
		}
	}
	if diff := cmp.Diff([]string{"tx_00_rx_00_run_00", "tx_00_rx_01_run_00", "tx_01_rx_01_run_00"}, keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	chans, err := Channels(recs, "rx_00")
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	if len(chans) != 2 {
		t.Fatalf("expected base group only, got %d channels", len(chans))
	}
	if _, err := Channels(recs, "rx_09"); err == nil {
		t.Fatalf("expected missing base error")
	}
}

func TestLatestDirs(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	for i, name := range []string{"run_a", "run_b", "run_c"} {
		p := filepath.Join(root, name)
		if err := os.Mkdir(p, 0o755); err != nil {
			t.Fatal(err)
		}
		stamp := now.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(p, stamp, stamp); err != nil {
			t.Fatal(err)
		}
	}
	got, err := LatestDirs(root, 2)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	want := []string{filepath.Join(root, "run_c"), filepath.Join(root, "run_b")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("latest mismatch (-want +got):\n%s", diff)
	}
	if got, _ := LatestDirs(root, 10); len(got) != 3 {
		t.Fatalf("expected all dirs, got %d", len(got))
	}
}
