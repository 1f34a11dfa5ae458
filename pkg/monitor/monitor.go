/*
 *
 *  * Licensed to the Apache Software Foundation (ASF) under one or more
 *  * contributor license agreements.  See the NOTICE file distributed with
 *  * this work for additional information regarding copyright ownership.
 *  * The ASF licenses this file to You under the Apache License, Version 2.0
 *  * (the "License"); you may not use this file except in compliance with
 *  * the License.  You may obtain a copy of the License at
 *  *
 *  *     http://www.apache.org/licenses/LICENSE-2.0
 *  *
 *  * Unless required by applicable law or agreed to in writing, software
 *  * distributed under the License is distributed on an "AS IS" BASIS,
 *  * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  * See the License for the specific language governing permissions and
 *  * limitations under the License.
 *
 */

package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusOK  = "ok"
	StatusErr = "error"

	TitleAdded     = "added"
	TitleDuplicate = "duplicate"
	TitleRejected  = "rejected"
)

type Monitor struct {
	SlowQueryConf        *SlowQueryConfS
	SlowQueryMonitorData *SlowQueryMonitorDataS

	registry prometheus.Registerer
	gatherer prometheus.Gatherer

	CommandsTotal    *prometheus.CounterVec
	CommandDuration  *prometheus.HistogramVec
	ConnectionGauge  prometheus.Gauge
	TitlesTotal      *prometheus.CounterVec
	MirrorPushes     *prometheus.CounterVec
	SlowQueryCounter prometheus.Counter
}

// New builds a monitor whose collectors are registered on reg. A nil reg
// selects a private registry.
func New(sq SlowQueryConfS, reg *prometheus.Registry) *Monitor {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if sq.MaxListSize <= 0 {
		sq.MaxListSize = DefaultSlowQueryListSize
	}

	m := &Monitor{
		SlowQueryConf:        &sq,
		SlowQueryMonitorData: newSlowQueryMonitorData(sq.MaxListSize),
		registry:             reg,
		gatherer:             reg,
	}

	m.CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "commands_total",
		Help:      "Count of command exec total",
	}, []string{"cmd", "status"})
	m.CommandDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "command_duration_seconds",
		Help:      "Command execute time",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
	}, []string{"cmd"})
	m.ConnectionGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "connected_clients",
		Help:      "Count of connection",
	})
	m.TitlesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "titles_total",
		Help:      "Count of titles by dedup result",
	}, []string{"result"})
	m.MirrorPushes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "mirror_pushes_total",
		Help:      "Count of fingerprints pushed upstream",
	}, []string{"status"})
	m.SlowQueryCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "slowquery_found_total",
		Help:      "Count of slow query found",
	})

	reg.MustRegister(
		m.CommandsTotal,
		m.CommandDuration,
		m.ConnectionGauge,
		m.TitlesTotal,
		m.MirrorPushes,
		m.SlowQueryCounter,
	)
	return m
}

func (m *Monitor) ObserveCommand(cmd string, err error, cost time.Duration) {
	status := StatusOK
	if err != nil {
		status = StatusErr
	}
	m.CommandsTotal.WithLabelValues(cmd, status).Inc()
	m.CommandDuration.WithLabelValues(cmd).Observe(cost.Seconds())
}

func (m *Monitor) ObserveTitle(result string) {
	m.TitlesTotal.WithLabelValues(result).Inc()
}

func (m *Monitor) ObserveMirror(err error) {
	if err != nil {
		m.MirrorPushes.WithLabelValues(StatusErr).Inc()
		return
	}
	m.MirrorPushes.WithLabelValues(StatusOK).Inc()
}

func (m *Monitor) SetConnections(n int64) {
	m.ConnectionGauge.Set(float64(n))
}

func (m *Monitor) Registerer() prometheus.Registerer {
	return m.registry
}

func (m *Monitor) Gatherer() prometheus.Gatherer {
	return m.gatherer
}
