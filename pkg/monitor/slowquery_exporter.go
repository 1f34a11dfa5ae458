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
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const maxRecordedArgLen = 128

var (
	slowQueryExecTimeLabels = append(BasicLabels, "_01_command", "_02_exec_time", "_03_start_time")

	slowQueryTotalDesc          = NewDesc("slowquery_total", "Count of slow query since last scrape", BasicLabels)
	slowQueryExecTimeRecordDesc = NewDesc("slowquery_exec_time_record", "Record of slow query command execute time", slowQueryExecTimeLabels)
)

type SlowQueryExporter struct {
	mon       *Monitor
	basicConf *ExporterConf
}

func NewSlowQueryExporter(mon *Monitor, c *ExporterConf) *SlowQueryExporter {
	return &SlowQueryExporter{
		mon:       mon,
		basicConf: c,
	}
}

func (s *SlowQueryExporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- slowQueryTotalDesc
	ch <- slowQueryExecTimeRecordDesc
}

func (s *SlowQueryExporter) Collect(ch chan<- prometheus.Metric) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Error("slowQuery prometheus collect panic:", r)
		}
	}()
	data := s.mon.GetSlowQueryData()

	ch <- prometheus.MustNewConstMetric(
		slowQueryTotalDesc,
		prometheus.GaugeValue,
		float64(len(data)),
		s.basicConf.Host,
	)

	for _, q := range data {
		ch <- prometheus.MustNewConstMetric(
			slowQueryExecTimeRecordDesc,
			prometheus.GaugeValue,
			float64(q.Cost().Milliseconds()),
			s.basicConf.Host,
			formatArgs(q.Args),
			strconv.FormatInt(q.Cost().Milliseconds(), 10),
			q.StartTime.Format("2006-01-02 15:04:05.000"),
		)
	}
}

func formatArgs(args []string) string {
	cmd := strings.Join(args, " ")
	if len(cmd) > maxRecordedArgLen {
		cmd = cmd[:maxRecordedArgLen] + "..."
	}
	return cmd
}
