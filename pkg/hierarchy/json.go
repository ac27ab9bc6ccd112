package hierarchy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadJSON decodes a catalog tree from r and builds it.
//
// A JSON object is read as a nested [Record]; a JSON array is read as flat
// [Entry] values and passed to [BuildFlat].
func ReadJSON(r io.Reader) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read hierarchy: %w", err)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("unmarshal entries: %w", err)
		}
		return BuildFlat(entries)
	}

	var rec Record
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return Build(rec)
}

// ReadFile reads a catalog tree from a JSON file. See [ReadJSON].
func ReadFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON writes the subtree rooted at n to w as an indented nested record.
func WriteJSON(n *Node, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(n.Record())
}
