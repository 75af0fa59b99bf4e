package snapshot

import (
	"testing"

	"github.com/bruth/a11y/id"
	"github.com/bruth/a11y/testutil"
)

func tree() *Node {
	return &Node{
		ID:        "root",
		ClassName: "android.widget.FrameLayout",
		Children: []*Node{
			{ID: "title", ClassName: "android.widget.TextView", Text: "Settings"},
			{
				ID:        "list",
				ClassName: "android.widget.ListView",
				Children: []*Node{
					{ID: "wrap", ClassName: "android.widget.Switch", Text: "Word wrap", Focused: true},
				},
			},
		},
	}
}

func TestNew(t *testing.T) {
	is := testutil.NewIs(t)

	gen := testutil.NewIDGen(id.Sequence("snap-"))
	next := gen.Next()

	s, err := New(tree(), IDGen(gen), Clock(testutil.NewClock(10)))
	is.NoErr(err)
	is.Equal(s.SnapshotID(), next)
	is.Equal(s.UptimeMillis(), int64(1000))
	is.Equal(s.Len(), 4)
	is.Equal(s.String(), "id=snap-1, uptime=1000, nodes=4")

	_, err = New(nil)
	is.Err(err, nil)

	dup := tree()
	dup.Children[0].ID = "list"
	_, err = New(dup)
	is.Err(err, nil)
}

func TestDefaults(t *testing.T) {
	is := testutil.NewIs(t)

	s, err := New(&Node{ID: "root"})
	is.NoErr(err)
	is.True(s.SnapshotID() != "")
	is.True(s.UptimeMillis() >= 0)
}

func TestView(t *testing.T) {
	is := testutil.NewIs(t)

	s, err := New(tree())
	is.NoErr(err)

	v, ok := s.View("wrap")
	is.True(ok)
	is.Equal(v.ViewID(), "wrap")
	is.Equal(v.Node().Text, "Word wrap")
	is.True(v.Snapshot() == s)
	is.True(s.Contains(v))
	is.Equal(v.String(), `id=wrap, class=android.widget.Switch, text="Word wrap", focused`)

	_, ok = s.View("missing")
	is.False(ok)

	other, _ := New(tree())
	ov, _ := other.View("wrap")
	is.False(s.Contains(ov))
}

func TestWalk(t *testing.T) {
	is := testutil.NewIs(t)

	s, _ := New(tree())

	var ids []string
	s.Walk(func(n *Node) bool {
		ids = append(ids, n.ID)
		return n.ID != "list"
	})
	is.Equal(ids, []string{"root", "title", "list"})
}
