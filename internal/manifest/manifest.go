// Package manifest reads and writes the build manifest: a JSON record of
// which source file produced which generated IR file, and with which
// extern set, so a driver can skip re-lowering unchanged inputs and an
// external build step can discover what there is to assemble and link.
package manifest

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Entry is one compiled unit's record.
type Entry struct {
	SourcePath string
	IRPath     string
	Externs    []string
}

// Read parses the manifest at path. A missing file yields an empty,
// non-error result: the first build of a project has no manifest yet.
func Read(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	result := gjson.GetBytes(data, "entries")
	if !result.Exists() {
		return nil, nil
	}

	entries := make([]Entry, 0, len(result.Array()))
	for _, item := range result.Array() {
		entry := Entry{
			SourcePath: item.Get("source").String(),
			IRPath:     item.Get("ir").String(),
		}
		for _, e := range item.Get("externs").Array() {
			entry.Externs = append(entry.Externs, e.String())
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Write serializes entries to path as the build manifest, overwriting any
// existing file.
func Write(path string, entries []Entry) error {
	doc := "{}"
	var err error
	for i, entry := range entries {
		base := fmt.Sprintf("entries.%d", i)
		if doc, err = sjson.Set(doc, base+".source", entry.SourcePath); err != nil {
			return fmt.Errorf("encoding manifest entry %d: %w", i, err)
		}
		if doc, err = sjson.Set(doc, base+".ir", entry.IRPath); err != nil {
			return fmt.Errorf("encoding manifest entry %d: %w", i, err)
		}
		if doc, err = sjson.Set(doc, base+".externs", entry.Externs); err != nil {
			return fmt.Errorf("encoding manifest entry %d: %w", i, err)
		}
	}

	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

// Lookup finds the entry for sourcePath, if present.
func Lookup(entries []Entry, sourcePath string) (Entry, bool) {
	for _, e := range entries {
		if e.SourcePath == sourcePath {
			return e, true
		}
	}
	return Entry{}, false
}
