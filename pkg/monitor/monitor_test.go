package monitor

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCommand(t *testing.T) {
	mon := New(SlowQueryConfS{}, nil)

	mon.ObserveCommand("SHA256", nil, time.Millisecond)
	mon.ObserveCommand("SHA256", nil, time.Millisecond)
	mon.ObserveCommand("SHA256", errors.New("bad"), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(mon.CommandsTotal.WithLabelValues("SHA256", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(mon.CommandsTotal.WithLabelValues("SHA256", StatusErr)))
	assert.Equal(t, 1, testutil.CollectAndCount(mon.CommandDuration))
}

func TestObserveTitleAndMirror(t *testing.T) {
	mon := New(SlowQueryConfS{}, nil)

	mon.ObserveTitle(TitleAdded)
	mon.ObserveTitle(TitleDuplicate)
	mon.ObserveTitle(TitleDuplicate)
	mon.ObserveMirror(nil)
	mon.ObserveMirror(errors.New("down"))
	mon.SetConnections(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(mon.TitlesTotal.WithLabelValues(TitleAdded)))
	assert.Equal(t, 2.0, testutil.ToFloat64(mon.TitlesTotal.WithLabelValues(TitleDuplicate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(mon.MirrorPushes.WithLabelValues(StatusErr)))
	assert.Equal(t, 3.0, testutil.ToFloat64(mon.ConnectionGauge))
}

func TestSlowQuery(t *testing.T) {
	mon := New(SlowQueryConfS{Enable: true, SlowQueryTimeThreshold: 10, MaxListSize: 2}, nil)
	start := time.Now()

	assert.False(t, mon.IsSlowQuery([][]byte{[]byte("PING")}, start, start.Add(time.Millisecond)))
	for i := 0; i < 3; i++ {
		assert.True(t, mon.IsSlowQuery([][]byte{[]byte("TITLEADD"), []byte("x")}, start, start.Add(20*time.Millisecond)))
	}

	data := mon.GetSlowQueryData()
	require.Len(t, data, 2)
	assert.Equal(t, []string{"TITLEADD", "x"}, data[0].Args)
	assert.Equal(t, 20*time.Millisecond, data[0].Cost())
	assert.Equal(t, 3.0, testutil.ToFloat64(mon.SlowQueryCounter))
	assert.Empty(t, mon.GetSlowQueryData())
}

func TestSlowQueryExporter(t *testing.T) {
	reg := prometheus.NewRegistry()
	mon := New(SlowQueryConfS{Enable: true, SlowQueryTimeThreshold: 0}, reg)
	conf := &ExporterConf{Host: "node-1"}
	RegisterExporters(mon, conf)

	start := time.Now()
	mon.IsSlowQuery([][]byte{[]byte("SHA256"), []byte(strings.Repeat("a", 300))}, start, start.Add(5*time.Millisecond))

	expected := `
# HELP fingerprint_slowquery_total Count of slow query since last scrape
# TYPE fingerprint_slowquery_total gauge
fingerprint_slowquery_total{host="node-1"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "fingerprint_slowquery_total"))
}

func TestHandler(t *testing.T) {
	mon := New(SlowQueryConfS{}, nil)
	mon.ObserveTitle(TitleAdded)

	srv := httptest.NewServer(Handler(mon))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fingerprint_titles_total{result="added"} 1`)
}

func TestFormatArgs(t *testing.T) {
	assert.Equal(t, "A B", formatArgs([]string{"A", "B"}))
	assert.Len(t, formatArgs([]string{strings.Repeat("x", 500)}), maxRecordedArgLen+3)
}
