package netlog

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// TablePrinter is the text rendering of a source's events: one row per
// event followed by one row per param.
type TablePrinter struct {
	rows [][]string
}

func newTablePrinter(e *SourceEntry) *TablePrinter {
	p := &TablePrinter{}
	start := e.StartTime()
	for _, ev := range e.events {
		p.addRow(
			fmt.Sprintf("t=%d", ev.Time),
			fmt.Sprintf("[st=%d]", ev.Time-start),
			phaseMarker(ev.Phase)+ev.Type,
		)
		ev.Params.ForEach(func(k, v gjson.Result) bool {
			p.addRow("", "", fmt.Sprintf("--> %s = %s", k.String(), e.log.paramText(k.String(), v)))
			return true
		})
	}
	return p
}

func phaseMarker(p Phase) string {
	switch p {
	case PhaseBegin:
		return "+"
	case PhaseEnd:
		return "-"
	default:
		return " "
	}
}

// paramText renders a param value, naming net error codes.
func (l *Log) paramText(key string, v gjson.Result) string {
	s := paramString(v)
	if key == "net_error" && v.Type == gjson.Number {
		if n, ok := l.consts.netErrors[v.Int()]; ok {
			s += " (" + n + ")"
		}
	}
	return s
}

func (p *TablePrinter) addRow(cells ...string) {
	p.rows = append(p.rows, cells)
}

// Rows returns the table cells.
func (p *TablePrinter) Rows() [][]string {
	return p.rows
}

// Search reports whether any cell contains text, ignoring case. A nil
// printer matches nothing.
func (p *TablePrinter) Search(text string) bool {
	if p == nil {
		return false
	}
	text = strings.ToLower(text)
	for _, row := range p.rows {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), text) {
				return true
			}
		}
	}
	return false
}

// Print writes the table with aligned columns. Cells wider than width are
// cut; width <= 0 means no limit.
func (p *TablePrinter) Print(w io.Writer, width int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	for _, row := range p.rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = truncate(c, width)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return errors.Wrap(err, "printing table")
		}
	}
	return errors.Wrap(tw.Flush(), "printing table")
}

func (p *TablePrinter) String() string {
	var b strings.Builder
	_ = p.Print(&b, 0)
	return b.String()
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
