package browser

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-core/tui/components/help"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-tree/internal/tui/browser/components/confirm"
	"github.com/mattsolo1/grove-tree/internal/tui/layout"
	"github.com/mattsolo1/grove-tree/pkg/drag"
	"github.com/mattsolo1/grove-tree/pkg/search"
	"github.com/mattsolo1/grove-tree/pkg/tree"
)

const (
	// Lines above the tree: top margin, header and a spacer.
	headerLines = 3
	// Lines below the tree: spacer, status line and help.
	footerLines = 3
	// Columns taken by the cursor marker.
	gutter = 2
)

// Options configure the widget.
type Options struct {
	Tree      *tree.Tree
	Drag      *drag.Config
	RowHeight int
	Indent    int
	// Path is where the tree was loaded from. When set, quitting with
	// unsaved changes asks whether to write them back.
	Path   string
	Save   func(path string, items []*tree.Item) error
	Logger *logrus.Entry
}

// shared holds state written from callbacks. Model is passed by value
// through Update, so callbacks cannot reach the live copy directly.
type shared struct {
	changed  bool
	lastDrop *drag.Drop
	eventID  uint64
}

// Model is the bubbletea model of the tree widget
type Model struct {
	tree   *tree.Tree
	cfg    *drag.Config
	layout *layout.Layout
	ctrl   *drag.Controller
	index  *search.Index
	styles styleSheet
	logger *logrus.Entry
	st     *shared

	keys        KeyMap
	help        help.Model
	searchInput textinput.Model
	confirm     confirm.Model

	cursor        int
	lastKey       string // For detecting 'gg' and 'z' sequences
	matches       []search.Hit
	matchIdx      int
	width         int
	height        int
	statusMessage string

	path     string
	save     func(path string, items []*tree.Item) error
	quitting bool
}

// New creates the widget model.
func New(opts Options) (Model, error) {
	if opts.Tree == nil {
		return Model{}, fmt.Errorf("browser: no tree")
	}
	cfg := opts.Drag
	if cfg == nil {
		def := drag.DefaultConfig()
		cfg = &def
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	logger = logger.WithField("sub-component", "browser")

	idx, err := search.NewIndex(opts.Tree)
	if err != nil {
		return Model{}, fmt.Errorf("failed to build search index: %w", err)
	}

	st := &shared{}
	opts.Tree.OnRender(func(tree.RenderEvent) { st.changed = true })

	lay := layout.New(opts.Tree, cfg,
		layout.WithRowHeight(opts.RowHeight),
		layout.WithIndent(opts.Indent),
	)
	ctrl := drag.NewController(opts.Tree, lay, cfg,
		drag.WithControllerLogger(logger),
		drag.WithDropHandler(func(d drag.Drop) { st.lastDrop = &d }),
	)

	helpModel := help.NewBuilder().
		WithKeys(keys).
		WithTitle("Tree - Help").
		Build()

	ti := textinput.New()
	ti.Placeholder = "Search titles..."
	ti.CharLimit = 100

	return Model{
		tree:        opts.Tree,
		cfg:         cfg,
		layout:      lay,
		ctrl:        ctrl,
		index:       idx,
		styles:      newStyleSheet(cfg),
		logger:      logger,
		st:          st,
		keys:        keys,
		help:        helpModel,
		searchInput: ti,
		confirm:     confirm.New(),
		path:        opts.Path,
		save:        opts.Save,
	}, nil
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return nil
}

// Tree returns the bound tree.
func (m Model) Tree() *tree.Tree { return m.tree }

// Controller returns the drag controller.
func (m Model) Controller() *drag.Controller { return m.ctrl }

// Changed reports whether the tree was modified since it was loaded or saved.
func (m Model) Changed() bool { return m.st.changed }

// Close releases the search index.
func (m Model) Close() error { return m.index.Close() }

// treeHeight is the number of lines available to the tree.
func (m Model) treeHeight() int {
	if m.height == 0 {
		return 0
	}
	h := m.height - headerLines - footerLines
	if h < m.layout.RowHeight() {
		h = m.layout.RowHeight()
	}
	return h
}

// current returns the node under the cursor.
func (m Model) current() *tree.Node {
	nodes := m.layout.VisibleNodes()
	if m.cursor < 0 || m.cursor >= len(nodes) {
		return nil
	}
	return nodes[m.cursor]
}

func (m *Model) clampCursor() {
	n := len(m.layout.VisibleNodes())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// focus moves the cursor to n and scrolls it into view.
func (m *Model) focus(n *tree.Node) {
	for i, v := range m.layout.VisibleNodes() {
		if v == n {
			m.cursor = i
			m.layout.EnsureVisible(n)
			return
		}
	}
}

// refresh re-lays out the tree after anything that may have changed it.
func (m *Model) refresh() {
	m.layout.Refresh(m.ctrl.Visuals())
	m.clampCursor()
}
