package drag

import (
	"errors"
	"fmt"

	"github.com/mattsolo1/grove-tree/pkg/tree"
)

// ErrApplied is returned when a session is applied twice.
var ErrApplied = errors.New("drag session already applied")

// Session tracks where the dragged node would land if dropped now. Nothing
// in the tree changes until Apply.
type Session struct {
	Source *tree.Node

	origIndex    int
	origSiblings []*tree.Node
	origParent   *tree.Nodes

	parent   *tree.Nodes
	siblings []*tree.Node
	index    int
	applied  bool
}

// NewSession snapshots source's current position as the first candidate.
func NewSession(source *tree.Node) *Session {
	parent := source.Siblings()
	siblings := parent.Nodes()
	return &Session{
		Source:       source,
		origIndex:    source.Index,
		origSiblings: siblings,
		origParent:   parent,
		parent:       parent,
		siblings:     append([]*tree.Node(nil), siblings...),
		index:        source.Index,
	}
}

// MoveTo makes (parent, siblings, index) the new candidate. When siblings
// already holds the source it is taken out first and index is shifted to
// account for the removal.
func (s *Session) MoveTo(parent *tree.Nodes, siblings []*tree.Node, index int) {
	s.parent = parent
	s.siblings = append([]*tree.Node(nil), siblings...)
	if i := indexOf(s.siblings, s.Source); i > -1 {
		s.siblings = append(s.siblings[:i], s.siblings[i+1:]...)
		if i < index {
			index--
		}
	}
	if index < 0 {
		index = 0
	}
	if index > len(s.siblings) {
		index = len(s.siblings)
	}
	s.siblings = append(s.siblings, nil)
	copy(s.siblings[index+1:], s.siblings[index:])
	s.siblings[index] = s.Source
	s.index = index
}

// Parent returns the candidate collection.
func (s *Session) Parent() *tree.Nodes { return s.parent }

// Index returns the candidate index.
func (s *Session) Index() int { return s.index }

// Siblings returns the candidate sibling sequence, source included.
func (s *Session) Siblings() []*tree.Node {
	return append([]*tree.Node(nil), s.siblings...)
}

// Origin returns the collection and index the source started from.
func (s *Session) Origin() (*tree.Nodes, int) { return s.origParent, s.origIndex }

// OriginSiblings returns the snapshot of the source's original siblings.
func (s *Session) OriginSiblings() []*tree.Node {
	return append([]*tree.Node(nil), s.origSiblings...)
}

// ParentNode returns the node owning the candidate collection, nil at the root.
func (s *Session) ParentNode() *tree.Node { return s.parent.Owner() }

// Prev returns the node just before the candidate position.
func (s *Session) Prev() *tree.Node {
	if s.index > 0 {
		return s.siblings[s.index-1]
	}
	return nil
}

// Next returns the node just after the candidate position.
func (s *Session) Next() *tree.Node {
	if s.index < len(s.siblings)-1 {
		return s.siblings[s.index+1]
	}
	return nil
}

// IsDirty reports whether the candidate differs from where the source is.
func (s *Session) IsDirty() bool {
	return s.Source.Siblings() != s.parent || s.Source.Index != s.index
}

// Apply commits the candidate: the source leaves its current collection
// and is inserted into the candidate collection at the candidate index.
func (s *Session) Apply() error {
	if s.applied {
		return ErrApplied
	}
	s.applied = true
	from := s.Source.Siblings()
	fromIndex := s.Source.Index
	if s.Source.Remove() == nil {
		return fmt.Errorf("apply %q: %w", s.Source.Value.Label(), tree.ErrNotAttached)
	}
	if err := s.parent.Insert(s.index, s.Source); err != nil {
		if restoreErr := from.Insert(fromIndex, s.Source); restoreErr != nil {
			return errors.Join(err, restoreErr)
		}
		return fmt.Errorf("apply %q: %w", s.Source.Value.Label(), err)
	}
	return nil
}

func indexOf(nodes []*tree.Node, n *tree.Node) int {
	for i, v := range nodes {
		if v == n {
			return i
		}
	}
	return -1
}
