// Package filter compiles the free-text filter language of the net log view
// into a predicate over log sources and an optional sort order.
//
// A filter is a list of whitespace separated terms, all of which must match:
//
//	sort:<method>        sort by method; -sort:<method> sorts in reverse
//	is:active, is:error  sources still open, sources that failed
//	type:<a>,<b>         source type contains any of the values
//	id:<a>,<b>           source id is any of the values
//	<text>               description, type or any logged text contains text
//
// Any term may be negated with a leading '-'. Terms may be quoted with '"'
// and any character may be escaped with '\'.
package filter

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the package logger.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		log = l
	}
}

// Searcher searches a printable rendering of an item.
type Searcher interface {
	Search(text string) bool
}

// Item is something that can be filtered.
type Item interface {
	IsInactive() bool
	IsError() bool
	SourceTypeString() string
	SourceID() int
	Description() string
	// TablePrinter renders the item for free text search. It is called at
	// most once per predicate evaluation.
	TablePrinter() Searcher
}

// Sort is a sort requested with sort:<method>. The method is not validated.
// A negated sort term sets Reverse.
type Sort struct {
	Method  string
	Reverse bool
}

// Result is a compiled filter.
type Result struct {
	// Predicate is true for items matching every term. It is never nil.
	Predicate func(Item) bool
	// Sort is the last sort term, or nil.
	Sort *Sort
	// TextWithoutSort is the input with sort terms removed, for redisplay.
	TextWithoutSort string
	// Tokens are the input's terms, sort terms included.
	Tokens []Token
}

// evaluation is one predicate call on one item.
type evaluation struct {
	item     Item
	searcher Searcher
	printed  bool
}

func (e *evaluation) search(text string) bool {
	if !e.printed {
		e.searcher = e.item.TablePrinter()
		e.printed = true
	}
	if e.searcher == nil {
		return false
	}
	return e.searcher.Search(text)
}

type term struct {
	match   func(*evaluation) bool
	negated bool
}

// directive handles a key:value1,value2 term.
type directive func(values []string) func(*evaluation) bool

var directives = map[string]directive{
	"type": func(values []string) func(*evaluation) bool {
		return func(e *evaluation) bool {
			t := strings.ToLower(e.item.SourceTypeString())
			for _, v := range values {
				if strings.Contains(t, v) {
					return true
				}
			}
			return false
		}
	},
	"id": func(values []string) func(*evaluation) bool {
		return func(e *evaluation) bool {
			id := strconv.Itoa(e.item.SourceID())
			for _, v := range values {
				if id == v {
					return true
				}
			}
			return false
		}
	},
}

var flags = map[string]func(*evaluation) bool{
	"active": func(e *evaluation) bool { return !e.item.IsInactive() },
	"error":  func(e *evaluation) bool { return e.item.IsError() },
}

func textMatch(text string) func(*evaluation) bool {
	return func(e *evaluation) bool {
		return strings.Contains(strings.ToLower(e.item.Description()), text) ||
			strings.Contains(strings.ToLower(e.item.SourceTypeString()), text) ||
			e.search(text)
	}
}

// classify turns a token into a term, or a sort when it is a sort term.
func classify(tok Token) (*term, *Sort) {
	if method, ok := strings.CutPrefix(tok.Text, "sort:"); ok {
		return nil, &Sort{Method: method, Reverse: tok.Negated}
	}
	if name, ok := strings.CutPrefix(tok.Text, "is:"); ok {
		if f, ok := flags[name]; ok {
			return &term{match: f, negated: tok.Negated}, nil
		}
	}
	if i := strings.IndexByte(tok.Text, ':'); i > 0 {
		if d, ok := directives[tok.Text[:i]]; ok {
			values := strings.Split(tok.Text[i+1:], ",")
			return &term{match: d(values), negated: tok.Negated}, nil
		}
	}
	return &term{match: textMatch(tok.Text), negated: tok.Negated}, nil
}

// Parse compiles a filter string. It never fails: terms it does not
// understand are matched as text.
func Parse(input string) Result {
	tokens := Tokenize(input)

	var (
		terms   []*term
		sort    *Sort
		kept    strings.Builder
		prevEnd int
	)
	for _, tok := range tokens {
		// The gap to the previous token is exactly the separating whitespace.
		gap := input[prevEnd:tok.Start]
		prevEnd = tok.End
		t, s := classify(tok)
		if s != nil {
			sort = s
			continue
		}
		terms = append(terms, t)
		if kept.Len() > 0 {
			kept.WriteString(gap)
		}
		kept.WriteString(tok.Span)
	}

	log.WithFields(logrus.Fields{
		"terms":  len(terms),
		"sorted": sort != nil,
	}).Debug("[FILTER]: parsed filter")

	return Result{
		Predicate:       predicate(terms),
		Sort:            sort,
		TextWithoutSort: kept.String(),
		Tokens:          tokens,
	}
}

func predicate(terms []*term) func(Item) bool {
	if len(terms) == 0 {
		return func(Item) bool { return true }
	}
	return func(item Item) bool {
		e := &evaluation{item: item}
		for _, t := range terms {
			if t.match(e) == t.negated {
				return false
			}
		}
		return true
	}
}
