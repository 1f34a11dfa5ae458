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
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/IceFireDB/IceFireDB-Fingerprint/utils"
)

const Namespace = "fingerprint"

var BasicLabels = []string{"host"}

type ExporterConf struct {
	Enable  bool   `mapstructure:"enable"`
	Host    string `mapstructure:"host"`
	Address string `mapstructure:"address"`
}

func (e *ExporterConf) SetDefaultHostname() {
	if e.Host == "" {
		e.Host = utils.GetHostname()
	}
}

func NewDesc(metricName string, docString string, labels []string) *prometheus.Desc {
	return prometheus.NewDesc(
		prometheus.BuildFQName(Namespace, "", metricName),
		docString,
		labels,
		nil)
}

// RegisterExporters adds the process and slow query collectors to the
// monitor registry.
func RegisterExporters(mon *Monitor, c *ExporterConf) {
	c.SetDefaultHostname()

	reg := mon.Registerer()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if mon.SlowQueryConf.Enable {
		reg.MustRegister(NewSlowQueryExporter(mon, c))
	}
}

func Handler(mon *Monitor) http.Handler {
	return promhttp.HandlerFor(mon.Gatherer(), promhttp.HandlerOpts{})
}

// RunPrometheusExporter serves /metrics on c.Address until ctx is done.
func RunPrometheusExporter(ctx context.Context, mon *Monitor, c *ExporterConf) {
	RegisterExporters(mon, c)

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(mon))
	srv := &http.Server{Addr: c.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	utils.GoWithRecover(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}, nil)
	utils.GoWithRecover(func() {
		logrus.Infof("prometheus exporter listen on %s", c.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("prometheus exporter: %v", err)
		}
	}, nil)
}
