package netlog

import (
	"sort"
	"strings"

	"github.com/heathj/webui/netlog/filter"
)

type lessFunc func(a, b *SourceEntry) bool

// compare orders by key, then by id.
func compare[K int | int64 | string](key func(*SourceEntry) K) lessFunc {
	return func(a, b *SourceEntry) bool {
		ka, kb := key(a), key(b)
		if ka != kb {
			return ka < kb
		}
		return a.id < b.id
	}
}

var sortMethods = map[string]lessFunc{
	"id":       compare(func(e *SourceEntry) int { return e.id }),
	"source":   compare(func(e *SourceEntry) string { return e.sourceType }),
	"desc":     compare(func(e *SourceEntry) string { return strings.ToLower(e.description) }),
	"duration": compare(func(e *SourceEntry) int64 { return e.Duration() }),
}

// SortMethods lists the methods accepted by Sort.
func SortMethods() []string {
	out := make([]string, 0, len(sortMethods))
	for m := range sortMethods {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Sort orders entries in place. Unknown methods sort by id.
func Sort(entries []*SourceEntry, s *filter.Sort) {
	method, reverse := "id", false
	if s != nil {
		method, reverse = s.Method, s.Reverse
	}
	less, ok := sortMethods[method]
	if !ok {
		log.WithField("method", method).Warn("[NETLOG]: unknown sort method, sorting by id")
		less = sortMethods["id"]
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if reverse {
			return less(entries[j], entries[i])
		}
		return less(entries[i], entries[j])
	})
}
