package netlog

import (
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/tidwall/sjson"
)

// Export writes a net log holding the events of entries, in time order, with
// the constants of l. The result can be read back with Load.
func (l *Log) Export(w io.Writer, entries []*SourceEntry) error {
	var events []*Event
	for _, e := range entries {
		events = append(events, e.events...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})

	out, err := sjson.SetRaw(`{"events":[]}`, "constants", l.header)
	if err != nil {
		return errors.Wrap(err, "exporting constants")
	}
	for i, ev := range events {
		if out, err = sjson.SetRaw(out, "events.-1", ev.raw); err != nil {
			return errors.Wrapf(err, "exporting event %d", i)
		}
	}
	if _, err := io.WriteString(w, out); err != nil {
		return errors.Wrap(err, "writing net log")
	}
	return nil
}
