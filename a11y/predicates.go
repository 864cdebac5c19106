package a11y

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/heathj/webui/spec"
	"github.com/heathj/webui/treewalker"
)

// Predicate tests a node.
type Predicate = treewalker.Predicate[*spec.Node]

// ErrUnknownPredicate is returned by ParseVisit for names it does not know.
var ErrUnknownPredicate = errors.New("unknown predicate")

// Invisible reports whether n or one of its ancestors is hidden from
// assistive technology.
func Invisible(n *spec.Node) bool {
	for i := n; i != nil; i = i.Parent() {
		if i.NodeType != spec.ElementNode {
			continue
		}
		if RoleOf(i) == Ignored || i.HasAttribute("hidden") ||
			strings.EqualFold(i.GetAttribute("aria-hidden"), "true") {
			return true
		}
		style := strings.ReplaceAll(strings.ToLower(i.GetAttribute("style")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return true
		}
	}
	return false
}

// Leaf nodes are presented as a whole and never descended into.
func Leaf(n *spec.Node) bool {
	if !n.HasChildNodes() || Invisible(n) {
		return true
	}
	switch RoleOf(n) {
	case Button, Slider, TextField, SearchBox, ComboBoxSelect, Image, MathRole, StaticText:
		return true
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if !Invisible(c) {
			return false
		}
	}
	return true
}

// Root nodes bound navigation: a walk never leaves a dialog or the page.
func Root(n *spec.Node) bool {
	switch RoleOf(n) {
	case RootWebArea, AlertDialog:
		return true
	case Dialog:
		return n.NodeName != "dialog" || n.HasAttribute("open") ||
			strings.EqualFold(n.GetAttribute("aria-modal"), "true")
	}
	return false
}

// Focusable reports whether n takes keyboard focus.
func Focusable(n *spec.Node) bool {
	if n.NodeType != spec.ElementNode || n.HasAttribute("disabled") {
		return false
	}
	if ti := n.GetAttribute("tabindex"); ti != "" {
		return !strings.HasPrefix(strings.TrimSpace(ti), "-")
	}
	switch n.NodeName {
	case "button", "select", "textarea", "summary":
		return true
	case "input":
		return RoleOf(n) != Ignored
	case "a":
		return n.HasAttribute("href")
	}
	return false
}

// Roles matches nodes with any of the given roles.
func Roles(roles ...Role) Predicate {
	set := make(map[Role]bool, len(roles))
	for _, r := range roles {
		set[r] = true
	}
	return func(n *spec.Node) bool { return set[RoleOf(n)] }
}

// Any matches nodes that match at least one of preds.
func Any(preds ...Predicate) Predicate {
	return func(n *spec.Node) bool {
		for _, p := range preds {
			if p(n) {
				return true
			}
		}
		return false
	}
}

var (
	// IsHeading matches headings of any level.
	IsHeading = Roles(Heading)
	// IsLink matches links.
	IsLink = Roles(Link)
	// IsFormField matches controls that take input.
	IsFormField = Roles(Button, CheckBox, ComboBoxSelect, RadioButton, SearchBox,
		Slider, SpinButton, Switch, TextField)
	// IsLandmark matches landmark regions.
	IsLandmark = Roles(Banner, Complementary, ContentInfo, Form, Main, Navigation,
		Region, Search)
	// IsList matches lists.
	IsList = Roles(List)
	// IsTable matches tables.
	IsTable = Roles(Table)
)

// IsObject matches the nodes a linear read of the page stops on: leaves with
// something to say and focusable controls.
func IsObject(n *spec.Node) bool {
	switch RoleOf(n) {
	case Ignored, RootWebArea:
		return false
	}
	if Focusable(n) {
		return true
	}
	return Leaf(n) && Name(n) != ""
}

// IsHeadingLevel matches headings of the given level.
func IsHeadingLevel(level int) Predicate {
	return func(n *spec.Node) bool { return HierarchicalLevel(n) == level }
}

var named = map[string]Predicate{
	"object":    IsObject,
	"heading":   IsHeading,
	"link":      IsLink,
	"formfield": IsFormField,
	"focusable": Focusable,
	"landmark":  IsLandmark,
	"list":      IsList,
	"table":     IsTable,
	"h1":        IsHeadingLevel(1),
	"h2":        IsHeadingLevel(2),
	"h3":        IsHeadingLevel(3),
	"h4":        IsHeadingLevel(4),
	"h5":        IsHeadingLevel(5),
	"h6":        IsHeadingLevel(6),
}

// PredicateNames lists the names ParseVisit accepts besides role names.
func PredicateNames() []string {
	out := make([]string, 0, len(named))
	for k := range named {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ParseVisit builds a visit predicate from a comma separated list of
// predicate names ("heading,link") or role names ("role:checkBox").
// An empty list is IsObject.
func ParseVisit(list string) (Predicate, error) {
	var preds []Predicate
	var roles []Role
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		switch {
		case name == "":
			continue
		case strings.HasPrefix(name, "role:"):
			roles = append(roles, Role(strings.TrimPrefix(name, "role:")))
		default:
			p, ok := named[strings.ToLower(name)]
			if !ok {
				return nil, errors.Wrapf(ErrUnknownPredicate, "%q", name)
			}
			preds = append(preds, p)
		}
	}
	if len(roles) > 0 {
		preds = append(preds, Roles(roles...))
	}
	switch len(preds) {
	case 0:
		return IsObject, nil
	case 1:
		return preds[0], nil
	}
	return Any(preds...), nil
}

// Restrictions are the walk restrictions for moving between nodes matched
// by visit, skipping hidden content.
func Restrictions(visit Predicate) *treewalker.Restrictions[*spec.Node] {
	if visit == nil {
		visit = IsObject
	}
	return &treewalker.Restrictions[*spec.Node]{
		Leaf: Leaf,
		Root: Root,
		Visit: func(n *spec.Node) bool {
			return !Invisible(n) && visit(n)
		},
	}
}

// WalkOption adjusts the restrictions of a Walk.
type WalkOption func(*treewalker.Restrictions[*spec.Node])

// SkipInitialSubtree keeps a walk out of the start node's descendants.
func SkipInitialSubtree(skip bool) WalkOption {
	return func(r *treewalker.Restrictions[*spec.Node]) { r.SkipInitialSubtree = skip }
}

// SkipInitialAncestry keeps a walk off the start node's ancestors.
func SkipInitialAncestry(skip bool) WalkOption {
	return func(r *treewalker.Restrictions[*spec.Node]) { r.SkipInitialAncestry = skip }
}

// FindNext is the first node after start in dir matched by visit, or nil.
func FindNext(start *spec.Node, dir treewalker.Direction, visit Predicate, opts ...WalkOption) *spec.Node {
	nodes, err := Walk(start, dir, visit, 1, opts...)
	if err != nil || len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// Walk is every node matched by visit from start in dir, up to limit.
func Walk(start *spec.Node, dir treewalker.Direction, visit Predicate, limit int, opts ...WalkOption) (spec.NodeList, error) {
	r := Restrictions(visit)
	for _, opt := range opts {
		opt(r)
	}
	w, err := treewalker.New(start, dir, r)
	if err != nil {
		return nil, errors.Wrap(err, "walking accessibility tree")
	}
	return w.Collect(limit), nil
}
