package search

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"

	"github.com/mattsolo1/grove-tree/pkg/tree"
)

// Index is an in-memory title index over a tree. It rebuilds itself lazily
// after the tree reports a render event.
type Index struct {
	db    *sql.DB
	tree  *tree.Tree
	fold  cases.Caser
	dirty bool
}

// Hit is one matching node.
type Hit struct {
	Node  tree.NodeID
	ID    string
	Title string
	Depth int
	// Path lists ancestor titles, outermost first.
	Path []string
	// Pos is the node's position in depth-first order.
	Pos int
}

// Options for searching
type Options struct {
	Limit int
}

// NewIndex creates an index bound to t and fills it.
func NewIndex(t *tree.Tree) (*Index, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	// Every connection to :memory: gets its own database.
	db.SetMaxOpenConns(1)

	idx := &Index{db: db, tree: t, fold: cases.Fold(), dirty: true}
	if err := idx.init(); err != nil {
		db.Close()
		return nil, err
	}
	t.OnRender(func(tree.RenderEvent) { idx.dirty = true })
	if err := idx.Rebuild(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *Index) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		pos INTEGER PRIMARY KEY,
		node INTEGER,
		id TEXT,
		title TEXT,
		folded TEXT,
		depth INTEGER,
		path TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_folded ON nodes(folded);
	`
	if _, err := idx.db.Exec(schema); err != nil {
		return fmt.Errorf("create search schema: %w", err)
	}
	return nil
}

// Rebuild reindexes every node in tree order.
func (idx *Index) Rebuild() error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec("DELETE FROM nodes"); err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO nodes (pos, node, id, title, folded, depth, path) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	var (
		pos     int
		path    []string
		walkErr error
	)
	idx.tree.Walk(func(n *tree.Node, depth int) bool {
		path = append(path[:depth], n.Value.Label())
		_, walkErr = stmt.Exec(pos, int64(n.ID), n.Value.ID, n.Value.Label(), idx.fold.String(n.Value.Label()), depth,
			strings.Join(path[:depth], "\x1f"))
		pos++
		return walkErr == nil
	})
	if walkErr != nil {
		return fmt.Errorf("index node: %w", walkErr)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	idx.dirty = false
	return nil
}

// Search returns nodes whose title contains query, ignoring case. Spaces in
// the query match any run of characters.
func (idx *Index) Search(query string, opts *Options) ([]Hit, error) {
	if opts == nil {
		opts = &Options{Limit: 50}
	}
	if opts.Limit == 0 {
		opts.Limit = 50
	}
	if idx.dirty {
		if err := idx.Rebuild(); err != nil {
			return nil, fmt.Errorf("rebuild search index: %w", err)
		}
	}

	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(idx.fold.String(query))
	pattern := "%" + strings.ReplaceAll(escaped, " ", "%") + "%"

	rows, err := idx.db.Query(`
		SELECT pos, node, id, title, depth, path
		FROM nodes
		WHERE folded LIKE ? ESCAPE '\'
		ORDER BY pos
		LIMIT ?
	`, pattern, opts.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Hit
	for rows.Next() {
		var (
			h    Hit
			path string
		)
		if err := rows.Scan(&h.Pos, &h.Node, &h.ID, &h.Title, &h.Depth, &path); err != nil {
			return nil, err
		}
		if path != "" {
			h.Path = strings.Split(path, "\x1f")
		}
		results = append(results, h)
	}
	return results, rows.Err()
}

// Close closes the index
func (idx *Index) Close() error {
	return idx.db.Close()
}
