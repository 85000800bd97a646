package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/mattsolo1/grove-tree/pkg/tree"
)

// loadItems reads a YAML tree file, or returns the demo tree when path is
// empty.
func loadItems(path string) ([]*tree.Item, error) {
	if path == "" {
		return tree.Demo(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tree file: %w", err)
	}
	defer f.Close()

	items, err := tree.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// saveItems writes items back to path, going through a temp file so a
// failed encode leaves the original intact.
func saveItems(path string, items []*tree.Item) error {
	var buf bytes.Buffer
	if err := tree.Encode(&buf, items); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write tree file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace tree file: %w", err)
	}
	return nil
}

func printItems(w io.Writer, items []*tree.Item) error {
	return tree.Encode(w, items)
}

func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
