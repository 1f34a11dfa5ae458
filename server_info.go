package main

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	deb "runtime/debug"
	"strings"
	"time"

	"github.com/IceFireDB/IceFireDB-Fingerprint/driver"
	"github.com/IceFireDB/IceFireDB-Fingerprint/utils"
)

const (
	GB uint64 = 1024 * 1024 * 1024
	MB uint64 = 1024 * 1024
	KB uint64 = 1024
)

var Delims = []byte("\r\n")

type ExtInfoFunc func() (tit string, metrics []map[string]interface{})

type info struct {
	app     *App
	ExtInfo []ExtInfoFunc
}

func (a *App) info() *info {
	i := &info{app: a}
	if mp, ok := a.db.(driver.MetricsProvider); ok {
		i.RegisterExtInfo(mp.Metrics)
	}
	return i
}

func (i *info) RegisterExtInfo(f ExtInfoFunc) {
	i.ExtInfo = append(i.ExtInfo, f)
}

func getMemoryHuman(m uint64) string {
	switch {
	case m > GB:
		return fmt.Sprintf("%0.3fG", float64(m)/float64(GB))
	case m > MB:
		return fmt.Sprintf("%0.3fM", float64(m)/float64(MB))
	case m > KB:
		return fmt.Sprintf("%0.3fK", float64(m)/float64(KB))
	default:
		return fmt.Sprintf("%d", m)
	}
}

// Dump renders one INFO section, or all of them when section is empty.
// Driver metrics follow the sections.
func (i *info) Dump(section string) []byte {
	buf := &bytes.Buffer{}
	switch strings.ToLower(section) {
	case "", "all":
		i.dumpAll(buf)
	case "server":
		i.dumpServer(buf)
	case "clients":
		i.dumpClients(buf)
	case "store":
		i.dumpStore(buf)
	case "mem":
		i.dumpMem(buf)
	case "gc":
		i.dumpGC(buf)
	default:
		buf.WriteString(fmt.Sprintf("# %s\r\n", section))
		return buf.Bytes()
	}
	for _, ifn := range i.ExtInfo {
		tit, metrics := ifn()
		buf.WriteString(fmt.Sprintf("# %s\r\n", tit))
		pairs := make([]infoPair, 0, len(metrics))
		for _, v := range metrics {
			for key, val := range v {
				pairs = append(pairs, infoPair{Key: key, Value: val})
			}
		}
		i.dumpPairs(buf, pairs...)
	}
	return buf.Bytes()
}

type infoPair struct {
	Key   string
	Value interface{}
}

func (i *info) dumpAll(buf *bytes.Buffer) {
	i.dumpServer(buf)
	buf.Write(Delims)
	i.dumpClients(buf)
	buf.Write(Delims)
	i.dumpStore(buf)
	buf.Write(Delims)
	i.dumpMem(buf)
	buf.Write(Delims)
	i.dumpGC(buf)
	buf.Write(Delims)
}

func (i *info) dumpServer(buf *bytes.Buffer) {
	buf.WriteString("# Server\r\n")

	var addr string
	if a := i.app.server.Addr(); a != nil {
		addr = a.String()
	}
	i.dumpPairs(buf,
		infoPair{"version", BuildVersion},
		infoPair{"build_date", BuildDate},
		infoPair{"os", runtime.GOOS},
		infoPair{"hostname", utils.GetHostname()},
		infoPair{"process_id", os.Getpid()},
		infoPair{"addr", addr},
		infoPair{"uptime_in_seconds", int64(time.Since(i.app.started).Seconds())},
		infoPair{"goroutine_num", runtime.NumGoroutine()},
		infoPair{"encode_utf8", i.app.cfg.Fingerprint.EncodeUTF8},
	)
}

func (i *info) dumpClients(buf *bytes.Buffer) {
	buf.WriteString("# Clients\r\n")

	i.dumpPairs(buf,
		infoPair{"connected_clients", i.app.server.Clients()},
		infoPair{"total_connections_received", i.app.server.TotalConnections()},
	)
}

func (i *info) dumpStore(buf *bytes.Buffer) {
	buf.WriteString("# Store\r\n")

	pairs := []infoPair{
		{"backend", i.app.cfg.Storage.Backend},
		{"data_dir", i.app.cfg.Storage.DataDir},
		{"fingerprints", i.app.titles.Count()},
		{"mirror_enabled", i.app.mirror != nil},
	}
	if i.app.mirror != nil {
		pairs = append(pairs,
			infoPair{"mirror_addr", i.app.cfg.Mirror.Addr},
			infoPair{"mirror_pending", i.app.mirror.Pending()},
		)
	}
	i.dumpPairs(buf, pairs...)
}

func (i *info) dumpMem(buf *bytes.Buffer) {
	buf.WriteString("# Mem\r\n")

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	i.dumpPairs(buf, infoPair{"mem_alloc", getMemoryHuman(mem.Alloc)},
		infoPair{"mem_sys", getMemoryHuman(mem.Sys)},
		infoPair{"mem_mallocs", mem.Mallocs},
		infoPair{"mem_frees", mem.Frees},
		infoPair{"mem_total", getMemoryHuman(mem.TotalAlloc)},
		infoPair{"mem_heap_alloc", getMemoryHuman(mem.HeapAlloc)},
		infoPair{"mem_heap_sys", getMemoryHuman(mem.HeapSys)},
		infoPair{"mem_heap_idle", getMemoryHuman(mem.HeapIdle)},
		infoPair{"mem_heap_inuse", getMemoryHuman(mem.HeapInuse)},
		infoPair{"mem_heap_objects", mem.HeapObjects},
	)
}

const gcTimeFormat = "2006/01/02 15:04:05.000"

func (i *info) dumpGC(buf *bytes.Buffer) {
	buf.WriteString("# GC\r\n")

	count := 5

	var st deb.GCStats
	st.Pause = make([]time.Duration, count)
	deb.ReadGCStats(&st)

	h := make([]string, 0, count)
	for i := 0; i < count && i < len(st.Pause); i++ {
		h = append(h, st.Pause[i].String())
	}

	i.dumpPairs(buf, infoPair{"gc_last_time", st.LastGC.Format(gcTimeFormat)},
		infoPair{"gc_num", st.NumGC},
		infoPair{"gc_pause_total", st.PauseTotal.String()},
		infoPair{"gc_pause_history", strings.Join(h, ",")},
	)
}

func (i *info) dumpPairs(buf *bytes.Buffer, pairs ...infoPair) {
	for _, v := range pairs {
		buf.WriteString(fmt.Sprintf("%s:%s\r\n", v.Key, utils.GetInterfaceString(v.Value)))
	}
}
