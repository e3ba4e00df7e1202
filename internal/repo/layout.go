package repo

import (
	"bufio"
	"os"
	"strings"
)

// LayoutConf is a parsed metadata/layout.conf (spec §6 "layout.conf
// keys consumed"): a flat `key = value` INI dialect, one key per line,
// `#` starting a comment to end of line. Space-separated keys are
// exposed via List; duplicate keys in the file let the later line win.
type LayoutConf struct {
	values map[string]string
}

// loadLayoutConf reads path if present; a missing file yields an empty,
// valid LayoutConf (layout.conf is optional per spec §6).
func loadLayoutConf(path string) (LayoutConf, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return LayoutConf{values: map[string]string{}}, nil
	}
	if err != nil {
		return LayoutConf{}, err
	}
	defer f.Close()

	values := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if key == "" {
			continue
		}
		values[key] = val
	}
	if err := scanner.Err(); err != nil {
		return LayoutConf{}, err
	}
	return LayoutConf{values: values}, nil
}

// Get returns the raw value for key, or "" if unset.
func (l LayoutConf) Get(key string) string { return l.values[key] }

// List splits the value for key on whitespace, e.g. "masters",
// "cache-formats", "eapis-banned"/"eapis-deprecated"/"eapis-testing",
// "manifest-hashes", "manifest-required-hashes", "profile-formats",
// "properties-allowed", "restrict-allowed".
func (l LayoutConf) List(key string) []string {
	v := l.values[key]
	if v == "" {
		return nil
	}
	return strings.Fields(v)
}

// ThinManifests reports the "thin-manifests" boolean key (default
// false, consistent with GLEP 82).
func (l LayoutConf) ThinManifests() bool {
	return l.Get("thin-manifests") == "true"
}
