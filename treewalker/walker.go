// Package treewalker walks a tree in pre-order or reverse pre-order starting
// from an arbitrary node, pruned by leaf, root and visit predicates.
package treewalker

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrInvalidArgument is returned when a walker is built without a start node.
var ErrInvalidArgument = errors.New("invalid argument")

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used for debug output.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		log = l
	}
}

// Node is the set of relations a walker reads from a tree. The zero value of
// N stands for "no node". Walkers never mutate nodes.
type Node[N any] interface {
	comparable
	Parent() N
	FirstChild() N
	LastChild() N
	PreviousSibling() N
	NextSibling() N
}

// Predicate tests a single node. Predicates must be free of side effects.
type Predicate[N any] func(N) bool

// Restrictions prune a walk. Nil Leaf and Root never match, nil Visit always
// matches.
type Restrictions[N any] struct {
	// Leaf nodes are never descended into.
	Leaf Predicate[N]
	// Root nodes stop a backward walk when reached and stop a forward walk
	// from climbing out of them once it has left the start node's subtree.
	Root Predicate[N]
	// Visit selects the nodes Next stops on.
	Visit Predicate[N]
	// SkipInitialAncestry skips over the start node's ancestors.
	SkipInitialAncestry bool
	// SkipInitialSubtree skips over the start node's descendants.
	SkipInitialSubtree bool
}

// state is the part of a walker that a single raw step rewrites.
type state[N any] struct {
	node     N
	phase    Phase
	ancestor N
}

// Walker is a cursor over a tree. It is not safe for concurrent use and gives
// no guarantee if the tree changes while walking.
type Walker[N Node[N]] struct {
	state[N]
	dir     Direction
	initial N

	leaf, root, visit   Predicate[N]
	skipInitialAncestry bool
	skipInitialSubtree  bool
}

func never[N any](N) bool  { return false }
func always[N any](N) bool { return true }

// New returns a walker positioned on start. r may be nil.
func New[N Node[N]](start N, dir Direction, r *Restrictions[N]) (*Walker[N], error) {
	var zero N
	if start == zero {
		return nil, errors.Wrap(ErrInvalidArgument, "start node is required")
	}
	if r == nil {
		r = &Restrictions[N]{}
	}

	w := &Walker[N]{
		state: state[N]{
			node:     start,
			phase:    Initial,
			ancestor: start.Parent(),
		},
		dir:                 dir,
		initial:             start,
		leaf:                r.Leaf,
		root:                r.Root,
		visit:               r.Visit,
		skipInitialAncestry: r.SkipInitialAncestry,
		skipInitialSubtree:  r.SkipInitialSubtree,
	}
	if w.leaf == nil {
		w.leaf = never[N]
	}
	if w.root == nil {
		w.root = never[N]
	}
	if w.visit == nil {
		w.visit = always[N]
	}

	log.WithFields(logrus.Fields{
		"direction":      dir,
		"skipAncestry":   r.SkipInitialAncestry,
		"skipSubtree":    r.SkipInitialSubtree,
		"customVisiting": r.Visit != nil,
	}).Debug("[WALK]: new walker")
	return w, nil
}

// MustNew is like New but panics when start is the zero node.
func MustNew[N Node[N]](start N, dir Direction, r *Restrictions[N]) *Walker[N] {
	w, err := New(start, dir, r)
	if err != nil {
		panic(err)
	}
	return w
}

// Node is the node the walker is on, or the zero node once exhausted.
func (w *Walker[N]) Node() N { return w.node }

// Phase is the cursor's position relative to the start node.
func (w *Walker[N]) Phase() Phase { return w.phase }

// Done reports whether the walker has run off the tree.
func (w *Walker[N]) Done() bool { return isNil(w.node) }

// Next moves to the next node accepted by the visit predicate. It returns the
// walker so calls chain; on an exhausted walker it does nothing.
func (w *Walker[N]) Next() *Walker[N] {
	if isNil(w.node) {
		return w
	}

	for {
		if w.dir == Backward && w.root(w.node) {
			var zero N
			w.node = zero
			return w
		}

		if w.dir == Forward {
			w.state = w.forward(w.state)
		} else {
			w.state = w.backward(w.state)
		}

		if isNil(w.node) || w.accepts(w.node) {
			return w
		}
	}
}

// Collect steps the walker until it is exhausted or limit nodes were
// visited, returning them in visiting order. A limit <= 0 means no limit.
func (w *Walker[N]) Collect(limit int) []N {
	var out []N
	for !w.Next().Done() {
		out = append(out, w.node)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func (w *Walker[N]) accepts(n N) bool {
	if w.skipInitialAncestry && w.phase == Ancestor {
		return false
	}
	if w.skipInitialSubtree && w.phase != Ancestor && w.phase != Other {
		return false
	}
	return w.visit(n)
}

// forward is one raw pre-order step.
func (w *Walker[N]) forward(s state[N]) state[N] {
	var zero N
	n := s.node

	if !w.leaf(n) {
		if child := n.FirstChild(); !isNil(child) {
			if s.phase == Initial {
				s.phase = Descendant
			}
			if !w.skipInitialSubtree || s.phase != Descendant {
				s.node = child
				return s
			}
		}
	}

	for search := n; !isNil(search); search = search.Parent() {
		// Any sibling or parent move from here leaves the start subtree.
		if search == w.initial {
			s.phase = Other
		}
		if next := search.NextSibling(); !isNil(next) {
			s.node = next
			return s
		}

		parent := search.Parent()
		if parent == w.initial {
			s.phase = Other
		}
		if !isNil(parent) && w.root(parent) && s.phase != Descendant {
			break
		}
	}

	s.node = zero
	return s
}

// backward is one raw reverse pre-order step.
func (w *Walker[N]) backward(s state[N]) state[N] {
	n := s.node

	if prev := n.PreviousSibling(); !isNil(prev) {
		for !w.leaf(prev) {
			last := prev.LastChild()
			if isNil(last) {
				break
			}
			prev = last
		}
		s.node = prev
		s.phase = Other
		return s
	}

	parent := n.Parent()
	if !isNil(parent) && parent == s.ancestor {
		s.phase = Ancestor
		s.ancestor = parent.Parent()
	}
	s.node = parent
	return s
}

// Relation is the phase a walk from start is in when it stands on n.
func Relation[N Node[N]](start, n N) Phase {
	if isNil(n) || n == start {
		return Initial
	}
	for a := start.Parent(); !isNil(a); a = a.Parent() {
		if a == n {
			return Ancestor
		}
	}
	for a := n.Parent(); !isNil(a); a = a.Parent() {
		if a == start {
			return Descendant
		}
	}
	return Other
}

func isNil[N comparable](n N) bool {
	var zero N
	return n == zero
}
