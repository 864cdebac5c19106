// Package parser turns HTML into a spec tree that can be walked.
package parser

import (
	"bytes"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

// DefaultMaxSize bounds the input read by a Parser when Options.MaxSize is 0.
const DefaultMaxSize = 10 * 1024 * 1024

var (
	// ErrTooLarge is returned when the input exceeds Options.MaxSize.
	ErrTooLarge = errors.New("html input too large")
	// ErrNoMatch is returned by queries that select nothing.
	ErrNoMatch = errors.New("no matching node")
)

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the package logger.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		log = l
	}
}

type Options struct {
	// MaxSize is the largest input accepted, in bytes.
	MaxSize int64
	// Sanitize runs the input through a user-generated-content policy
	// before parsing.
	Sanitize bool
	// KeepWhitespace keeps whitespace-only text nodes.
	KeepWhitespace bool
}

type Parser struct {
	input io.Reader
	opts  Options
}

func NewParser(htmlIn io.Reader, opts Options) *Parser {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	return &Parser{
		input: htmlIn,
		opts:  opts,
	}
}

// Start reads and parses the whole input.
func (p *Parser) Start() (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(p.input, p.opts.MaxSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading html")
	}
	if int64(len(data)) > p.opts.MaxSize {
		return nil, errors.Wrapf(ErrTooLarge, "limit is %d bytes", p.opts.MaxSize)
	}

	r, cs := decode(data)
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", cs)
	}
	if p.opts.Sanitize {
		text = bluemonday.UGCPolicy().SanitizeBytes(text)
	}

	root, err := html.Parse(bytes.NewReader(text))
	if err != nil {
		return nil, errors.Wrap(err, "parsing html")
	}

	doc := newDocument(root, p.opts.KeepWhitespace)
	log.WithFields(logrus.Fields{
		"bytes":   len(data),
		"charset": cs,
		"nodes":   len(doc.nodes),
	}).Debug("[PARSE]: built document")
	return doc, nil
}

// Parse is NewParser(r, opts).Start().
func Parse(r io.Reader, opts Options) (*Document, error) {
	return NewParser(r, opts).Start()
}

// ParseString parses s with default options.
func ParseString(s string) (*Document, error) {
	return Parse(bytes.NewReader([]byte(s)), Options{})
}
