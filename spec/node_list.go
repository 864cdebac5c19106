package spec

import "sort"

// https://dom.spec.whatwg.org/#nodelist
type NodeList []*Node

// Names lists each node's NodeName.
func (h NodeList) Names() []string {
	out := make([]string, 0, len(h))
	for _, n := range h {
		out = append(out, n.NodeName)
	}
	return out
}

func sortedStrings(s []string) []string {
	sort.Strings(s)
	return s
}
