package netlog

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heathj/webui/netlog/filter"
)

func loadTestLog(t *testing.T) *Log {
	t.Helper()
	f, err := os.Open("testdata/netlog.json")
	require.NoError(t, err)
	defer f.Close()
	l, err := Load(f)
	require.NoError(t, err)
	return l
}

func ids(entries []*SourceEntry) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID())
	}
	return out
}

func TestLoad(t *testing.T) {
	l := loadTestLog(t)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(l.Entries()))
	assert.Equal(t, int64(160), l.EndTime())

	tests := []struct {
		id          int
		typ         string
		description string
		inactive    bool
		failed      bool
		duration    int64
		events      int
	}{
		{1, "URL_REQUEST", "https://example.com/", true, false, 50, 4},
		{2, "HOST_RESOLVER_IMPL_JOB", "example.com", true, true, 5, 2},
		{3, "SOCKET", "ssl/example.com:443", false, false, 40, 2},
		{4, "TRANSPORT_CONNECT_JOB", "ssl/example.com:443", true, false, 45, 2},
	}
	for _, tt := range tests {
		e := l.Entry(tt.id)
		require.NotNil(t, e, "source %d", tt.id)
		assert.Equal(t, tt.typ, e.SourceTypeString(), "source %d", tt.id)
		assert.Equal(t, tt.description, e.Description(), "source %d", tt.id)
		assert.Equal(t, tt.inactive, e.IsInactive(), "source %d", tt.id)
		assert.Equal(t, tt.failed, e.IsError(), "source %d", tt.id)
		assert.Equal(t, tt.duration, e.Duration(), "source %d", tt.id)
		assert.Len(t, e.Events(), tt.events, "source %d", tt.id)
	}
	assert.Nil(t, l.Entry(99))

	ev := l.Entry(1).Events()[1]
	assert.Equal(t, "URL_REQUEST_START_JOB", ev.Type)
	assert.Equal(t, PhaseBegin, ev.Phase)
	assert.Equal(t, int64(101), ev.Time)
	assert.Equal(t, "PHASE_END", l.Entry(1).Events()[3].Phase.String())
	assert.Equal(t, time.UnixMilli(1700000000101).UTC(), l.WallTime(ev.Time))
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name, in string
	}{
		{"not json", `{"constants":`},
		{"no constants", `{"events": []}`},
		{"no events", `{"constants": {"logSourceType": {}, "logEventTypes": {}, "logEventPhase": {}}}`},
		{"event without type", `{"constants": {"logSourceType": {}, "logEventTypes": {}, "logEventPhase": {}},
			"events": [{"source": {"id": 1, "type": 0}, "time": "1"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedLog), err.Error())
		})
	}
}

func TestTablePrinter(t *testing.T) {
	l := loadTestLog(t)
	p := l.Entry(2).Table()
	assert.Equal(t, [][]string{
		{"t=105", "[st=0]", "+HOST_RESOLVER_IMPL_JOB"},
		{"", "", "--> host = example.com"},
		{"t=110", "[st=5]", "-HOST_RESOLVER_IMPL_JOB"},
		{"", "", "--> net_error = -105 (ERR_NAME_NOT_RESOLVED)"},
	}, p.Rows())

	assert.True(t, p.Search("err_name_not_resolved"))
	assert.True(t, p.Search("Example.COM"))
	assert.False(t, p.Search("socket"))

	var b strings.Builder
	require.NoError(t, p.Print(&b, 20))
	assert.NotContains(t, b.String(), "ERR_NAME")
	assert.Contains(t, b.String(), "...")
	assert.Contains(t, p.String(), "(ERR_NAME_NOT_RESOLVED)")

	var none *TablePrinter
	assert.False(t, none.Search("example"))
}

func TestFilter(t *testing.T) {
	l := loadTestLog(t)
	tests := []struct {
		in   string
		want []int
	}{
		{"", []int{1, 2, 3, 4}},
		{"is:error", []int{2}},
		{"-is:error", []int{1, 3, 4}},
		{"is:active", []int{3}},
		{"example.com", []int{1, 2, 3, 4}},
		{"type:url", []int{1}},
		{"type:socket,host", []int{2, 3}},
		{"id:4,1", []int{1, 4}},
		{"err_name_not_resolved", []int{2}},
		{"err_failed", []int{1}},
		{"load_flags", []int{1}},
		{"93.184", []int{3}},
		{`"ssl/example.com:443" -type:socket`, []int{4}},
		{"sort:desc", []int{2, 1, 3, 4}},
		{"sort:source", []int{2, 3, 4, 1}},
		{"sort:duration", []int{2, 3, 4, 1}},
		{"-sort:duration", []int{1, 4, 3, 2}},
		{"-sort:id", []int{4, 3, 2, 1}},
		{"-is:active sort:desc", []int{2, 1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, _ := l.Filter(tt.in)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	_, res := l.Filter("sort:desc  Example")
	assert.Equal(t, "Example", res.TextWithoutSort)
	require.NotNil(t, res.Sort)
	assert.Equal(t, "desc", res.Sort.Method)
}

func TestFilterDefaultSort(t *testing.T) {
	l := loadTestLog(t)
	l.DefaultSort = "duration"
	got, res := l.Filter("example")
	assert.Nil(t, res.Sort)
	assert.Equal(t, []int{2, 3, 4, 1}, ids(got))
}

func TestUnknownSortMethod(t *testing.T) {
	logger, hook := test.NewNullLogger()
	SetLogger(logger)
	defer SetLogger(logrus.StandardLogger())

	entries := loadTestLog(t).Entries()
	reversed := []*SourceEntry{entries[3], entries[2], entries[1], entries[0]}
	Sort(reversed, &filter.Sort{Method: "bogus"})
	assert.Equal(t, []int{1, 2, 3, 4}, ids(reversed))

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "bogus", hook.LastEntry().Data["method"])

	assert.Equal(t, []string{"desc", "duration", "id", "source"}, SortMethods())
}

func TestExport(t *testing.T) {
	l := loadTestLog(t)
	matched, _ := l.Filter("is:error")

	var b strings.Builder
	require.NoError(t, l.Export(&b, matched))

	back, err := Load(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Equal(t, []int{2}, ids(back.Entries()))
	e := back.Entry(2)
	assert.True(t, e.IsError())
	assert.Equal(t, "example.com", e.Description())
	assert.Len(t, e.Events(), 2)

	b.Reset()
	require.NoError(t, l.Export(&b, nil))
	back, err = Load(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Empty(t, back.Entries())
}
