package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/heathj/webui/a11y"
	"github.com/heathj/webui/internal/config"
	"github.com/heathj/webui/netlog"
	"github.com/heathj/webui/parser"
	"github.com/heathj/webui/spec"
	"github.com/heathj/webui/treewalker"
)

type walkFlags struct {
	dir          string
	css          string
	xpath        string
	visit        string
	limit        int
	skipSubtree  bool
	skipAncestry bool
}

func walkCommand(cfg *config.Config, args []string, out io.Writer) error {
	var f walkFlags
	fs := flag.NewFlagSet("walk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&f.dir, "dir", "forward", "Walk direction (forward, backward)")
	fs.StringVar(&f.css, "css", "", "CSS selector of the start node")
	fs.StringVar(&f.xpath, "xpath", "", "XPath expression of the start node")
	fs.StringVar(&f.visit, "visit", cfg.Visit, "Comma-separated predicates or role:<name> to visit. Empty = every object")
	fs.IntVar(&f.limit, "limit", cfg.WalkLimit, "Stop after this many nodes. 0 = no limit")
	fs.BoolVar(&f.skipSubtree, "skip-subtree", false, "Do not visit the start node's descendants")
	fs.BoolVar(&f.skipAncestry, "skip-ancestry", false, "Do not visit the start node's ancestors")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(errUsage, err.Error())
	}
	if fs.NArg() != 1 {
		return errors.Wrap(errUsage, "walk takes one html file")
	}
	if f.css != "" && f.xpath != "" {
		return errors.Wrap(errUsage, "-css and -xpath are exclusive")
	}
	dir, ok := treewalker.ParseDirection(f.dir)
	if !ok {
		return errors.Wrapf(errUsage, "unknown direction %q", f.dir)
	}
	visit, err := a11y.ParseVisit(f.visit)
	if err != nil {
		return err
	}

	doc, err := parseFile(cfg, fs.Arg(0))
	if err != nil {
		return err
	}
	start := doc.Root
	switch {
	case f.css != "":
		start, err = doc.QuerySelector(f.css)
	case f.xpath != "":
		start, err = doc.QueryXPath(f.xpath)
	}
	if err != nil {
		return err
	}

	nodes, err := a11y.Walk(start, dir, visit, f.limit,
		a11y.SkipInitialSubtree(f.skipSubtree),
		a11y.SkipInitialAncestry(f.skipAncestry))
	if err != nil {
		return err
	}
	for _, n := range nodes {
		printNode(out, treewalker.Relation(start, n), n)
	}
	return nil
}

func parseFile(cfg *config.Config, path string) (*parser.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening html")
	}
	defer file.Close()
	return parser.Parse(file, parser.Options{
		MaxSize:  cfg.MaxHTMLSize,
		Sanitize: cfg.Sanitize,
	})
}

func printNode(out io.Writer, phase treewalker.Phase, n *spec.Node) {
	name := a11y.Name(n)
	if level := a11y.HierarchicalLevel(n); level > 0 {
		fmt.Fprintf(out, "%-10s %s(%d) %q\n", phase, a11y.RoleOf(n), level, name)
		return
	}
	fmt.Fprintf(out, "%-10s %s %q\n", phase, a11y.RoleOf(n), name)
}

func filterCommand(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("filter", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	query := fs.String("q", "", "Filter text, e.g. 'type:url_request -is:error sort:duration'")
	events := fs.Bool("events", false, "Print each matching source's events")
	export := fs.String("o", "", "Write the matching sources to this net log file")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(errUsage, err.Error())
	}
	if fs.NArg() != 1 {
		return errors.Wrap(errUsage, "filter takes one net log file")
	}

	file, err := os.Open(fs.Arg(0))
	if err != nil {
		return errors.Wrap(err, "opening net log")
	}
	defer file.Close()
	l, err := netlog.Load(file)
	if err != nil {
		return err
	}
	l.DefaultSort = cfg.SortMethod

	entries, res := l.Filter(*query)
	fmt.Fprintf(out, "filter: %q\n", res.TextWithoutSort)
	for _, e := range entries {
		state := "active"
		if e.IsInactive() {
			state = "done"
		}
		if e.IsError() {
			state += ",error"
		}
		fmt.Fprintf(out, "%d\t%s\t%s\t%dms\t%s\n", e.ID(), e.SourceTypeString(), state, e.Duration(), e.Description())
		if *events {
			if err := e.Table().Print(out, cfg.TableWidth); err != nil {
				return err
			}
		}
	}
	if *export == "" {
		return nil
	}
	dst, err := os.Create(*export)
	if err != nil {
		return errors.Wrap(err, "creating export")
	}
	if err := l.Export(dst, entries); err != nil {
		dst.Close()
		return err
	}
	return errors.Wrap(dst.Close(), "closing export")
}
