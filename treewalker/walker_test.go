package treewalker

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNode struct {
	name     string
	parent   *testNode
	children []*testNode
}

func (n *testNode) Parent() *testNode { return n.parent }

func (n *testNode) FirstChild() *testNode {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

func (n *testNode) LastChild() *testNode {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

func (n *testNode) index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

func (n *testNode) PreviousSibling() *testNode {
	i := n.index()
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

func (n *testNode) NextSibling() *testNode {
	i := n.index()
	if i < 0 || i == len(n.parent.children)-1 {
		return nil
	}
	return n.parent.children[i+1]
}

func node(name string, children ...*testNode) *testNode {
	n := &testNode{name: name, children: children}
	for _, c := range children {
		c.parent = n
	}
	return n
}

// testTree builds
//
//	root
//	├─ a
//	│  ├─ a1
//	│  └─ a2
//	├─ b
//	│  └─ b1
//	│     └─ b1x
//	└─ c
func testTree() (*testNode, map[string]*testNode) {
	root := node("root",
		node("a", node("a1"), node("a2")),
		node("b", node("b1", node("b1x"))),
		node("c"),
	)
	byName := map[string]*testNode{}
	var index func(n *testNode)
	index = func(n *testNode) {
		byName[n.name] = n
		for _, c := range n.children {
			index(c)
		}
	}
	index(root)
	return root, byName
}

func names(nodes []*testNode) string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.name)
	}
	return strings.Join(out, " ")
}

func named(names ...string) Predicate[*testNode] {
	return func(n *testNode) bool {
		for _, name := range names {
			if n.name == name {
				return true
			}
		}
		return false
	}
}

func TestNewRequiresStartNode(t *testing.T) {
	w, err := New[*testNode](nil, Forward, nil)
	require.Error(t, err)
	assert.Nil(t, w)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, ErrInvalidArgument, errors.Cause(err))

	assert.Panics(t, func() { MustNew[*testNode](nil, Backward, nil) })
}

func TestForwardPreOrder(t *testing.T) {
	root, _ := testTree()
	w := MustNew(root, Forward, nil)
	assert.Equal(t, Initial, w.Phase())
	assert.Equal(t, root, w.Node())

	assert.Equal(t, "a a1 a2 b b1 b1x c", names(w.Collect(0)))
	assert.True(t, w.Done())
}

func TestCollectLimit(t *testing.T) {
	root, _ := testTree()
	w := MustNew(root, Forward, nil)
	assert.Equal(t, "a a1 a2", names(w.Collect(3)))
	assert.Equal(t, "a2", w.Node().name)
	assert.Equal(t, "b b1", names(w.Collect(2)))
}

func TestForwardPhases(t *testing.T) {
	_, tree := testTree()
	w := MustNew(tree["a"], Forward, nil)

	steps := []struct {
		name  string
		phase Phase
	}{
		{"a1", Descendant},
		{"a2", Descendant},
		{"b", Other},
		{"b1", Other},
		{"b1x", Other},
		{"c", Other},
	}
	for _, step := range steps {
		w.Next()
		require.False(t, w.Done())
		assert.Equal(t, step.name, w.Node().name)
		assert.Equal(t, step.phase, w.Phase(), "phase at %s", step.name)
		assert.Equal(t, w.Phase(), Relation(tree["a"], w.Node()), "relation at %s", step.name)
	}
	assert.True(t, w.Next().Done())
}

func TestBackwardPhases(t *testing.T) {
	_, tree := testTree()
	w := MustNew(tree["b1x"], Backward, nil)

	steps := []struct {
		name  string
		phase Phase
	}{
		{"b1", Ancestor},
		{"b", Ancestor},
		{"a2", Other},
		{"a1", Other},
		{"a", Other},
		{"root", Ancestor},
	}
	for _, step := range steps {
		w.Next()
		require.False(t, w.Done())
		assert.Equal(t, step.name, w.Node().name)
		assert.Equal(t, step.phase, w.Phase(), "phase at %s", step.name)
		assert.Equal(t, w.Phase(), Relation(tree["b1x"], w.Node()), "relation at %s", step.name)
	}
	assert.True(t, w.Next().Done())
}

func TestRelation(t *testing.T) {
	_, tree := testTree()
	tests := []struct {
		start, n string
		want     Phase
	}{
		{"b", "b", Initial},
		{"b", "root", Ancestor},
		{"b1x", "b", Ancestor},
		{"b", "b1x", Descendant},
		{"b", "a2", Other},
		{"a1", "a2", Other},
	}
	for _, tt := range tests {
		t.Run(tt.start+"/"+tt.n, func(t *testing.T) {
			assert.Equal(t, tt.want, Relation(tree[tt.start], tree[tt.n]))
		})
	}
	assert.Equal(t, Initial, Relation(tree["b"], nil))
}

func TestForwardBackwardSymmetry(t *testing.T) {
	root, _ := testTree()
	for n := 1; n <= 7; n++ {
		fw := MustNew(root, Forward, nil)
		for i := 0; i < n; i++ {
			fw.Next()
		}
		require.False(t, fw.Done())

		bw := MustNew(fw.Node(), Backward, nil)
		for i := 0; i < n; i++ {
			bw.Next()
		}
		assert.Same(t, root, bw.Node(), "after %d steps", n)
	}
}

func TestLeafIsNotDescended(t *testing.T) {
	root, _ := testTree()
	w := MustNew(root, Forward, &Restrictions[*testNode]{Leaf: named("b")})
	assert.Equal(t, "a a1 a2 b c", names(w.Collect(0)))

	_, tree := testTree()
	w = MustNew(tree["c"], Backward, &Restrictions[*testNode]{Leaf: named("b")})
	assert.Equal(t, "b a2 a1 a root", names(w.Collect(0)))
}

func TestRootStopsBackwardWalk(t *testing.T) {
	_, tree := testTree()
	w := MustNew(tree["a2"], Backward, &Restrictions[*testNode]{Root: named("a")})
	assert.Equal(t, "a1 a", names(w.Collect(0)))
	assert.True(t, w.Done())
}

func TestRootStopsForwardEscape(t *testing.T) {
	_, tree := testTree()
	r := &Restrictions[*testNode]{Root: named("b")}

	w := MustNew(tree["b1"], Forward, r)
	assert.Equal(t, "b1x", names(w.Collect(0)))

	w = MustNew(tree["b1x"], Forward, r)
	assert.Empty(t, w.Collect(0))

	// A root start node can still be walked into.
	w = MustNew(tree["b"], Forward, r)
	assert.Equal(t, "b1 b1x", names(w.Collect(0)))
}

func TestVisitFiltersNodes(t *testing.T) {
	root, _ := testTree()
	visit := func(n *testNode) bool { return len(n.name) == 2 }
	w := MustNew(root, Forward, &Restrictions[*testNode]{Visit: visit})
	assert.Equal(t, "a1 a2 b1", names(w.Collect(0)))
}

func TestSkipInitialSubtree(t *testing.T) {
	_, tree := testTree()
	w := MustNew(tree["a"], Forward, &Restrictions[*testNode]{SkipInitialSubtree: true})
	w.Next()
	assert.Equal(t, "b", w.Node().name)
	assert.Equal(t, Other, w.Phase())
	assert.Equal(t, "b1 b1x c", names(w.Collect(0)))
}

func TestSkipInitialAncestry(t *testing.T) {
	_, tree := testTree()
	w := MustNew(tree["b1x"], Backward, &Restrictions[*testNode]{SkipInitialAncestry: true})
	assert.Equal(t, "a2 a1 a", names(w.Collect(0)))
}

func TestNextOnExhaustedWalker(t *testing.T) {
	_, tree := testTree()
	w := MustNew(tree["c"], Forward, nil)
	assert.Same(t, w, w.Next())
	assert.True(t, w.Done())

	phase := w.Phase()
	assert.Same(t, w, w.Next())
	assert.Nil(t, w.Node())
	assert.Equal(t, phase, w.Phase())
}

func TestPhaseAndDirectionStrings(t *testing.T) {
	assert.Equal(t, "initial", Initial.String())
	assert.Equal(t, "ancestor", Ancestor.String())
	assert.Equal(t, "descendant", Descendant.String())
	assert.Equal(t, "other", Other.String())
	assert.Equal(t, "unknown", Phase(42).String())

	d, ok := ParseDirection("backward")
	assert.True(t, ok)
	assert.Equal(t, Backward, d)
	assert.Equal(t, "backward", d.String())
	_, ok = ParseDirection("sideways")
	assert.False(t, ok)
}
