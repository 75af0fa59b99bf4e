// Package snapshot provides a UI element tree captured at one point in time.
// Snapshot and View satisfy the a11y.Snapshot and a11y.SnapshotView
// interfaces.
package snapshot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bruth/a11y/clock"
	"github.com/bruth/a11y/id"
)

// Node is one UI element of the tree.
type Node struct {
	ID                 string  `json:"id"`
	ClassName          string  `json:"class,omitempty"`
	Text               string  `json:"text,omitempty"`
	ContentDescription string  `json:"desc,omitempty"`
	Bounds             [4]int  `json:"bounds"` // left, top, right, bottom
	Focused            bool    `json:"focused,omitempty"`
	Children           []*Node `json:"children,omitempty"`
}

func (n *Node) String() string {
	var b strings.Builder
	b.WriteString("id=")
	b.WriteString(n.ID)
	if n.ClassName != "" {
		b.WriteString(", class=")
		b.WriteString(n.ClassName)
	}
	if n.Text != "" {
		b.WriteString(", text=")
		b.WriteString(strconv.Quote(n.Text))
	}
	if n.ContentDescription != "" {
		b.WriteString(", desc=")
		b.WriteString(strconv.Quote(n.ContentDescription))
	}
	if n.Focused {
		b.WriteString(", focused")
	}
	return b.String()
}

type snapshotOption func(o *Snapshot)

func (f snapshotOption) addOption(o *Snapshot) {
	f(o)
}

// Option models an option when capturing a snapshot.
type Option interface {
	addOption(o *Snapshot)
}

// IDGen sets the snapshot ID generator. Default is id.NUID.
func IDGen(gen id.ID) Option {
	return snapshotOption(func(o *Snapshot) {
		o.id = gen.New()
	})
}

// Clock sets the clock used to stamp the capture time. Default is clock.Uptime.
func Clock(c clock.Clock) Option {
	return snapshotOption(func(o *Snapshot) {
		o.uptimeMillis = c.UptimeMillis()
	})
}

// Snapshot is an immutable element tree. It must not be modified after
// New returns.
type Snapshot struct {
	id           string
	uptimeMillis int64
	root         *Node
	index        map[string]*Node
}

// New captures a snapshot of the tree rooted at root. Node IDs must be
// unique within the tree.
func New(root *Node, opts ...Option) (*Snapshot, error) {
	if root == nil {
		return nil, fmt.Errorf("snapshot: root node is nil")
	}

	s := &Snapshot{
		root:  root,
		index: make(map[string]*Node),
	}

	var err error
	walk(root, func(n *Node) bool {
		if _, ok := s.index[n.ID]; ok {
			err = fmt.Errorf("snapshot: duplicate node id %q", n.ID)
			return false
		}
		s.index[n.ID] = n
		return true
	})
	if err != nil {
		return nil, err
	}

	for _, o := range opts {
		o.addOption(s)
	}
	if s.id == "" {
		s.id = id.NUID.New()
	}
	if s.uptimeMillis == 0 {
		s.uptimeMillis = clock.Uptime.UptimeMillis()
	}

	return s, nil
}

// SnapshotID implements a11y.Snapshot.
func (s *Snapshot) SnapshotID() string {
	return s.id
}

// UptimeMillis returns the capture time.
func (s *Snapshot) UptimeMillis() int64 {
	return s.uptimeMillis
}

func (s *Snapshot) Root() *Node {
	return s.root
}

// Len returns the number of nodes in the tree.
func (s *Snapshot) Len() int {
	return len(s.index)
}

// View resolves the node within this snapshot.
func (s *Snapshot) View(nodeID string) (*View, bool) {
	n, ok := s.index[nodeID]
	if !ok {
		return nil, false
	}
	return &View{snapshot: s, node: n}, true
}

// Contains reports whether v references a node of this snapshot.
func (s *Snapshot) Contains(v *View) bool {
	return v != nil && v.snapshot == s
}

// Walk visits nodes depth-first until fn returns false.
func (s *Snapshot) Walk(fn func(n *Node) bool) {
	walk(s.root, fn)
}

func walk(n *Node, fn func(n *Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func (s *Snapshot) String() string {
	return fmt.Sprintf("id=%s, uptime=%d, nodes=%d", s.id, s.uptimeMillis, len(s.index))
}

// View references one node of a snapshot.
type View struct {
	snapshot *Snapshot
	node     *Node
}

// ViewID implements a11y.SnapshotView.
func (v *View) ViewID() string {
	return v.node.ID
}

func (v *View) Node() *Node {
	return v.node
}

func (v *View) Snapshot() *Snapshot {
	return v.snapshot
}

func (v *View) String() string {
	return v.node.String()
}
