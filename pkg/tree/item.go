package tree

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Item is one element of the bound model. Each tree level is a []*Item and
// the Tree keeps its sibling collections mirrored against those slices.
type Item struct {
	ID        string                 `yaml:"id,omitempty"`
	Title     string                 `yaml:"title"`
	NoDrag    bool                   `yaml:"nodrag,omitempty"`    // the item's handle refuses to start a drag
	NoDrop    bool                   `yaml:"nodrop,omitempty"`    // the item's child collection refuses drops
	Leaf      bool                   `yaml:"leaf,omitempty"`      // no child collection is rendered
	Collapsed bool                   `yaml:"collapsed,omitempty"` // initial collapsed state
	Metadata  map[string]interface{} `yaml:"metadata,omitempty"`  // opaque user data

	Children []*Item `yaml:"children,omitempty"`
}

// Label returns the text shown for the item.
func (it *Item) Label() string {
	if it.Title != "" {
		return it.Title
	}
	return it.ID
}

// Decode reads a YAML list of items.
func Decode(r io.Reader) ([]*Item, error) {
	var items []*Item
	if err := yaml.NewDecoder(r).Decode(&items); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return items, nil
}

// Encode writes items as a YAML list.
func Encode(w io.Writer, items []*Item) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	return enc.Close()
}

// Outline renders items as plain lines with tree prefixes, one per item.
func Outline(items []*Item) []string {
	var lines []string
	var walk func(items []*Item, prefix string)
	walk = func(items []*Item, prefix string) {
		for i, it := range items {
			last := i == len(items)-1
			branch, next := "├─ ", "│  "
			if last {
				branch, next = "└─ ", "   "
			}
			lines = append(lines, prefix+branch+it.Label())
			walk(it.Children, prefix+next)
		}
	}
	walk(items, "")
	return lines
}

// Demo returns the sample tree shown when no file is given.
func Demo() []*Item {
	return []*Item{
		{ID: "inbox", Title: "Inbox", Children: []*Item{
			{ID: "call-bank", Title: "Call the bank"},
			{ID: "renew-passport", Title: "Renew passport"},
		}},
		{ID: "projects", Title: "Projects", Children: []*Item{
			{ID: "garden", Title: "Garden", Children: []*Item{
				{ID: "seeds", Title: "Order seeds"},
				{ID: "fence", Title: "Fix the fence"},
			}},
			{ID: "talk", Title: "Conference talk", Children: []*Item{}},
		}},
		{ID: "archive", Title: "Archive (read only)", NoDrop: true, Children: []*Item{
			{ID: "taxes", Title: "2025 taxes", NoDrag: true},
		}},
		{ID: "someday", Title: "Someday", Children: []*Item{}},
	}
}
