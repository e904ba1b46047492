package iqfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the extension of recordings.
const Ext = ".dat"

// Recording is one decoded .dat file.
type Recording struct {
	Path    string
	Tags    Tags
	Samples []complex128
}

// ReadFile decodes the recording at path.
func ReadFile(path string, opts Options) ([]complex128, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	samples, err := Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return samples, nil
}

// WriteFile encodes samples to path, creating parent directories.
func WriteFile(path string, samples []complex128, f Format) error {
	data, err := Encode(samples, f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadDir decodes every tagged .dat file in dir, sorted by file name. Files
// without an rx_NN tag are skipped.
func LoadDir(dir string, opts Options) ([]Recording, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []Recording
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			continue
		}
		tags, err := ParseTags(e.Name())
		if err != nil {
			continue
		}
		path := filepath.Join(dir, e.Name())
		samples, err := ReadFile(path, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, Recording{Path: path, Tags: tags, Samples: samples})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Channels groups recordings by RX label. Only recordings sharing the
// transmitter and run of the base channel are kept; the base must be present.
func Channels(recs []Recording, base string) (map[string][]complex128, error) {
	var ref *Tags
	for i := range recs {
		if recs[i].Tags.RX == base {
			ref = &recs[i].Tags
			break
		}
	}
	if ref == nil {
		return nil, fmt.Errorf("iqfile: base channel %s not found", base)
	}
	out := make(map[string][]complex128)
	for _, r := range recs {
		if !r.Tags.SameGroup(*ref) {
			continue
		}
		if _, dup := out[r.Tags.RX]; dup {
			return nil, fmt.Errorf("iqfile: duplicate recording for %s", r.Tags.Key())
		}
		out[r.Tags.RX] = r.Samples
	}
	return out, nil
}

// LatestDirs returns the n most recently modified subdirectories of root,
// newest first.
func LatestDirs(root string, n int) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	type dir struct {
		path string
		mod  int64
	}
	var dirs []dir
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, dir{path: filepath.Join(root, e.Name()), mod: info.ModTime().UnixNano()})
	}
	sort.Slice(dirs, func(i, j int) bool {
		if dirs[i].mod == dirs[j].mod {
			return dirs[i].path > dirs[j].path
		}
		return dirs[i].mod > dirs[j].mod
	})
	if n < 0 {
		n = 0
	}
	if n > len(dirs) {
		n = len(dirs)
	}
	out := make([]string, 0, n)
	for _, d := range dirs[:n] {
		out = append(out, d.path)
	}
	return out, nil
}
