package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Frame Serialization API
// =============================================================================

// MarshalFrame serializes a Frame to pretty-printed JSON bytes.
func MarshalFrame(f Frame) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// UnmarshalFrame deserializes JSON bytes into a Frame and validates it.
func UnmarshalFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("unmarshal frame: %w", err)
	}
	if err := f.Validate(); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// Validate checks that node IDs are unique and non-empty and that every
// edge endpoint names a node in the frame.
func (f *Frame) Validate() error {
	ids := make(map[string]struct{}, len(f.Nodes))
	for _, n := range f.Nodes {
		if n.ID == "" {
			return fmt.Errorf("frame node with empty id")
		}
		if _, dup := ids[n.ID]; dup {
			return fmt.Errorf("duplicate frame node %q", n.ID)
		}
		ids[n.ID] = struct{}{}
	}
	for _, e := range f.Edges {
		if _, ok := ids[e.From]; !ok {
			return fmt.Errorf("edge %s→%s: unknown source", e.From, e.To)
		}
		if _, ok := ids[e.To]; !ok {
			return fmt.Errorf("edge %s→%s: unknown target", e.From, e.To)
		}
	}
	return nil
}

// WriteFrame writes a Frame to w as JSON.
func WriteFrame(f Frame, w io.Writer) error {
	data, err := MarshalFrame(f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadFrame reads a Frame from r.
func ReadFrame(r io.Reader) (Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Frame{}, fmt.Errorf("read frame: %w", err)
	}
	return UnmarshalFrame(data)
}

// WriteFrameFile writes a Frame to a JSON file.
func WriteFrameFile(f Frame, path string) error {
	data, err := MarshalFrame(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFrameFile reads a Frame from a JSON file.
func ReadFrameFile(path string) (Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Frame{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalFrame(data)
}
