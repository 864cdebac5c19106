// Package netlog reads net-export logs and exposes their sources to the
// filter language.
package netlog

import (
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/heathj/webui/netlog/filter"
)

// ErrMalformedLog wraps every error returned by Load.
var ErrMalformedLog = errors.New("malformed net log")

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the package logger.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		log = l
	}
}

type Phase int

const (
	PhaseNone Phase = iota
	PhaseBegin
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseBegin:
		return "PHASE_BEGIN"
	case PhaseEnd:
		return "PHASE_END"
	default:
		return "PHASE_NONE"
	}
}

// Event is one entry of the events array.
type Event struct {
	// Time is in milliseconds on the log's tick clock.
	Time       int64
	Type       string
	Phase      Phase
	SourceID   int
	SourceType string
	Params     gjson.Result

	raw string
}

// HasParams reports whether the event carries a params object.
func (e *Event) HasParams() bool {
	return e.Params.IsObject()
}

// constants are the name tables from the log header, inverted to map the
// numeric values used by events back to names.
type constants struct {
	sourceTypes map[int64]string
	eventTypes  map[int64]string
	phases      map[int64]Phase
	netErrors   map[int64]string
	tickOffset  int64
}

func invert(r gjson.Result) map[int64]string {
	m := map[int64]string{}
	r.ForEach(func(k, v gjson.Result) bool {
		m[v.Int()] = k.String()
		return true
	})
	return m
}

func readConstants(c gjson.Result) (*constants, error) {
	for _, key := range []string{"logSourceType", "logEventTypes", "logEventPhase"} {
		if !c.Get(key).IsObject() {
			return nil, errors.Wrapf(ErrMalformedLog, "constants.%s missing", key)
		}
	}
	consts := &constants{
		sourceTypes: invert(c.Get("logSourceType")),
		eventTypes:  invert(c.Get("logEventTypes")),
		phases:      map[int64]Phase{},
		netErrors:   invert(c.Get("netError")),
		tickOffset:  c.Get("timeTickOffset").Int(),
	}
	for v, name := range invert(c.Get("logEventPhase")) {
		switch name {
		case "PHASE_BEGIN":
			consts.phases[v] = PhaseBegin
		case "PHASE_END":
			consts.phases[v] = PhaseEnd
		default:
			consts.phases[v] = PhaseNone
		}
	}
	return consts, nil
}

func name(names map[int64]string, v int64) string {
	if n, ok := names[v]; ok {
		return n
	}
	return strconv.FormatInt(v, 10)
}

// Log is a loaded net-export log.
type Log struct {
	consts  *constants
	header  string
	entries []*SourceEntry
	byID    map[int]*SourceEntry
	endTime int64
	// DefaultSort is used by Filter when the filter has no sort term.
	DefaultSort string
}

// Load reads a net-export JSON log.
func Load(r io.Reader) (*Log, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading net log")
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(ErrMalformedLog, "not JSON")
	}
	root := gjson.ParseBytes(data)
	consts, err := readConstants(root.Get("constants"))
	if err != nil {
		return nil, err
	}
	events := root.Get("events")
	if !events.IsArray() {
		return nil, errors.Wrap(ErrMalformedLog, "events missing")
	}

	l := &Log{
		consts:      consts,
		header:      root.Get("constants").Raw,
		byID:        map[int]*SourceEntry{},
		DefaultSort: "id",
	}
	var loadErr error
	i := 0
	events.ForEach(func(_, v gjson.Result) bool {
		ev, err := l.readEvent(v)
		if err != nil {
			loadErr = errors.Wrapf(err, "event %d", i)
			return false
		}
		l.add(ev)
		i++
		return true
	})
	if loadErr != nil {
		return nil, loadErr
	}

	sort.Slice(l.entries, func(a, b int) bool {
		return l.entries[a].id < l.entries[b].id
	})
	for _, e := range l.entries {
		e.describe()
	}

	log.WithFields(logrus.Fields{
		"events":  i,
		"sources": len(l.entries),
	}).Debug("[NETLOG]: loaded")
	return l, nil
}

func (l *Log) readEvent(v gjson.Result) (*Event, error) {
	src := v.Get("source")
	if !src.Get("id").Exists() || !v.Get("type").Exists() {
		return nil, errors.Wrap(ErrMalformedLog, "event without source id or type")
	}
	return &Event{
		Time:       v.Get("time").Int(),
		Type:       name(l.consts.eventTypes, v.Get("type").Int()),
		Phase:      l.consts.phases[v.Get("phase").Int()],
		SourceID:   int(src.Get("id").Int()),
		SourceType: name(l.consts.sourceTypes, src.Get("type").Int()),
		Params:     v.Get("params"),
		raw:        v.Raw,
	}, nil
}

func (l *Log) add(ev *Event) {
	e, ok := l.byID[ev.SourceID]
	if !ok {
		e = &SourceEntry{id: ev.SourceID, sourceType: ev.SourceType, log: l}
		l.byID[ev.SourceID] = e
		l.entries = append(l.entries, e)
	}
	e.update(ev)
	if ev.Time > l.endTime {
		l.endTime = ev.Time
	}
}

// Entries returns every source in id order.
func (l *Log) Entries() []*SourceEntry {
	return l.entries
}

// Entry returns the source with the given id, or nil.
func (l *Log) Entry(id int) *SourceEntry {
	return l.byID[id]
}

// EndTime is the time of the last event in the log.
func (l *Log) EndTime() int64 {
	return l.endTime
}

// WallTime converts a tick time to wall clock time using the log's
// timeTickOffset.
func (l *Log) WallTime(ticks int64) time.Time {
	return time.UnixMilli(l.consts.tickOffset + ticks).UTC()
}

// Filter returns the sources matching text, sorted by the filter's sort
// term or DefaultSort.
func (l *Log) Filter(text string) ([]*SourceEntry, filter.Result) {
	res := filter.Parse(text)
	var out []*SourceEntry
	for _, e := range l.entries {
		if res.Predicate(e) {
			out = append(out, e)
		}
	}
	s := res.Sort
	if s == nil {
		s = &filter.Sort{Method: l.DefaultSort}
	}
	Sort(out, s)
	log.WithFields(logrus.Fields{
		"filter":  text,
		"matched": len(out),
	}).Debug("[NETLOG]: filtered")
	return out, res
}
