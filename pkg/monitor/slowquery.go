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
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultSlowQueryListSize = 128

type SlowQueryConfS struct {
	Enable bool
	// Unit: ms
	SlowQueryTimeThreshold int
	MaxListSize            int
}

type SlowQueryDataS struct {
	Args      []string
	StartTime time.Time
	EndTime   time.Time
}

func (d *SlowQueryDataS) Cost() time.Duration {
	return d.EndTime.Sub(d.StartTime)
}

// SlowQueryMonitorDataS holds the slow queries found since the last
// collection, up to a fixed size.
type SlowQueryMonitorDataS struct {
	SlowQueryDataList []*SlowQueryDataS
	maxSize           int
	sync.Mutex
}

func newSlowQueryMonitorData(size int) *SlowQueryMonitorDataS {
	return &SlowQueryMonitorDataS{
		SlowQueryDataList: make([]*SlowQueryDataS, 0, size),
		maxSize:           size,
	}
}

// IsSlowQuery records args when the command took at least the configured
// threshold. It reports whether the command was slow.
func (m *Monitor) IsSlowQuery(args [][]byte, startTime time.Time, endTime time.Time) bool {
	cost := endTime.Sub(startTime)
	if cost < time.Duration(m.SlowQueryConf.SlowQueryTimeThreshold)*time.Millisecond {
		return false
	}

	strArgs := make([]string, len(args))
	for i, a := range args {
		strArgs[i] = string(a)
	}
	m.SlowQueryCounter.Inc()

	data := m.SlowQueryMonitorData
	data.Lock()
	if len(data.SlowQueryDataList) < data.maxSize {
		data.SlowQueryDataList = append(data.SlowQueryDataList, &SlowQueryDataS{
			Args:      strArgs,
			StartTime: startTime,
			EndTime:   endTime,
		})
	}
	data.Unlock()

	logrus.Warnf("Found slowquery: %s, cost : %d ms.", strings.Join(strArgs, " "), cost.Milliseconds())
	return true
}

// GetSlowQueryData returns the recorded slow queries and clears the list.
func (m *Monitor) GetSlowQueryData() []*SlowQueryDataS {
	data := m.SlowQueryMonitorData
	data.Lock()
	defer data.Unlock()

	list := data.SlowQueryDataList
	data.SlowQueryDataList = make([]*SlowQueryDataS, 0, data.maxSize)
	return list
}
