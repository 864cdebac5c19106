package netlog

import (
	"github.com/tidwall/gjson"

	"github.com/heathj/webui/netlog/filter"
)

var _ filter.Item = (*SourceEntry)(nil)

// descriptionParam names the start event param describing each source type.
var descriptionParam = map[string]string{
	"URL_REQUEST":                      "url",
	"SOCKET_STREAM":                    "url",
	"HTTP_STREAM_JOB":                  "url",
	"HTTP_STREAM_JOB_CONTROLLER":       "url",
	"BIDIRECTIONAL_STREAM":             "url",
	"CONNECT_JOB":                      "group_name",
	"TRANSPORT_CONNECT_JOB":            "group_name",
	"SSL_CONNECT_JOB":                  "group_name",
	"SOCKS_CONNECT_JOB":                "group_name",
	"HTTP_PROXY_CONNECT_JOB":           "group_name",
	"WEB_SOCKET_TRANSPORT_CONNECT_JOB": "group_name",
	"HOST_RESOLVER_IMPL_JOB":           "host",
	"HOST_RESOLVER_IMPL_REQUEST":       "host",
	"HOST_RESOLVER_IMPL_PROC_TASK":     "host",
	"QUIC_SESSION":                     "host",
	"HTTP2_SESSION":                    "host",
	"DISK_CACHE_ENTRY":                 "key",
	"MEMORY_CACHE_ENTRY":               "key",
	"UDP_SOCKET":                       "address",
	"FILESTREAM":                       "file_name",
	"DOWNLOAD":                         "file_name",
}

// SourceEntry is every event logged for one source id.
type SourceEntry struct {
	id          int
	sourceType  string
	events      []*Event
	inactive    bool
	failed      bool
	description string
	log         *Log
}

func (e *SourceEntry) update(ev *Event) {
	if !e.inactive && len(e.events) > 0 &&
		ev.Phase == PhaseEnd && ev.Type == e.events[0].Type {
		e.inactive = true
	}
	if code := ev.Params.Get("net_error").Int(); code != 0 {
		// A cache miss is not an error.
		if ev.Type != "HTTP_CACHE_OPEN_ENTRY" || code != e.log.errFailed() {
			e.failed = true
		}
	}
	e.events = append(e.events, ev)
}

func (l *Log) errFailed() int64 {
	for code, n := range l.consts.netErrors {
		if n == "ERR_FAILED" {
			return code
		}
	}
	return -2
}

// startEvent is the event whose params describe the source.
func (e *SourceEntry) startEvent() *Event {
	if len(e.events) == 0 {
		return nil
	}
	if len(e.events) >= 2 {
		second := e.events[1]
		if second.Type == "UDP_CONNECT" {
			return second
		}
		if !e.events[0].HasParams() && second.HasParams() {
			return second
		}
	}
	return e.events[0]
}

func (e *SourceEntry) describe() {
	e.description = e.describeDepth(0)
}

func (e *SourceEntry) describeDepth(depth int) string {
	start := e.startEvent()
	if start == nil {
		return ""
	}
	if e.sourceType == "SOCKET" {
		if dep := start.Params.Get("source_dependency.id"); dep.Exists() && depth < 4 {
			if src := e.log.Entry(int(dep.Int())); src != nil && src != e {
				return src.describeDepth(depth + 1)
			}
		}
		return paramString(start.Params.Get("address"))
	}
	key, ok := descriptionParam[e.sourceType]
	if !ok {
		return ""
	}
	return paramString(start.Params.Get(key))
}

func paramString(v gjson.Result) string {
	if !v.Exists() {
		return ""
	}
	if v.Type == gjson.String {
		return v.Str
	}
	return v.Raw
}

func (e *SourceEntry) ID() int { return e.id }

func (e *SourceEntry) SourceID() int { return e.id }

func (e *SourceEntry) SourceTypeString() string { return e.sourceType }

func (e *SourceEntry) Description() string { return e.description }

func (e *SourceEntry) Events() []*Event { return e.events }

// IsInactive is set once the source logged the end of its first event.
func (e *SourceEntry) IsInactive() bool { return e.inactive }

// IsError is set once any event logged a net error.
func (e *SourceEntry) IsError() bool { return e.failed }

func (e *SourceEntry) StartTime() int64 {
	if len(e.events) == 0 {
		return 0
	}
	return e.events[0].Time
}

// EndTime is the last event's time, or the end of the log for sources still
// active.
func (e *SourceEntry) EndTime() int64 {
	if !e.inactive {
		return e.log.EndTime()
	}
	return e.events[len(e.events)-1].Time
}

// Duration is in milliseconds.
func (e *SourceEntry) Duration() int64 {
	return e.EndTime() - e.StartTime()
}

// TablePrinter renders the source's events.
func (e *SourceEntry) TablePrinter() filter.Searcher {
	return e.Table()
}

func (e *SourceEntry) Table() *TablePrinter {
	return newTablePrinter(e)
}
