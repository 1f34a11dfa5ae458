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

package config

type Config struct {
	Server             ServerS             `mapstructure:"server"`
	Storage            StorageS            `mapstructure:"storage"`
	Fingerprint        FingerprintS        `mapstructure:"fingerprint"`
	Mirror             MirrorS             `mapstructure:"mirror"`
	PrometheusExporter PrometheusExporterS `mapstructure:"prometheus_exporter"`
	SlowQuery          SlowQueryS          `mapstructure:"slowquery"`
	IgnoreCMD          IgnoreCMDS          `mapstructure:"ignore_cmd"`
	Log                LogS                `mapstructure:"log"`
	PprofDebug         PprofDebugS         `mapstructure:"pprof_debug"`
}

type ServerS struct {
	Addr string `mapstructure:"addr" json:"addr"`
}

type StorageS struct {
	// hybriddb, badger
	Backend string `mapstructure:"backend" json:"backend"`
	DataDir string `mapstructure:"data_dir" json:"data_dir"`
	// Hot tier capacity Unit: MB
	HotCacheSize int64 `mapstructure:"hot_cache_size" json:"hot_cache_size"`
	Compression  bool  `mapstructure:"compression" json:"compression"`
	SyncWrites   bool  `mapstructure:"sync_writes" json:"sync_writes"`
	// Number of lock stripes guarding title writes
	SlotNum int `mapstructure:"slot_num" json:"slot_num"`
}

type FingerprintS struct {
	// Hash the UTF-8 bytes of titles instead of rejecting characters above U+00FF
	EncodeUTF8 bool `mapstructure:"encode_utf8" json:"encode_utf8"`
}

type MirrorS struct {
	Enable bool   `mapstructure:"enable" json:"enable"`
	Addr   string `mapstructure:"addr" json:"addr"`
	// Upstream set holding the fingerprints of every node
	Key string `mapstructure:"key" json:"key"`
	// Treat fingerprints found upstream as duplicates
	CheckUpstream bool `mapstructure:"check_upstream" json:"check_upstream"`
	QueueSize     int  `mapstructure:"queue_size" json:"queue_size"`
	MaxRetries    int  `mapstructure:"max_retries" json:"max_retries"`
	// Unit: ms
	ConnTimeout int `mapstructure:"conn_timeout" json:"conn_timeout"`
	PoolSize    int `mapstructure:"pool_size" json:"pool_size"`
}

type PrometheusExporterS struct {
	Enable  bool   `mapstructure:"enable"`
	Address string `mapstructure:"address"`
	Host    string `mapstructure:"host"`
}

type SlowQueryS struct {
	Enable bool `mapstructure:"enable"`
	// Unit: ms
	Threshold   int `mapstructure:"threshold_ms"`
	MaxListSize int `mapstructure:"max_list_size"`
}

type IgnoreCMDS struct {
	Enable bool `mapstructure:"enable" json:"enable"`
	// Commands refused by the router
	CMDList []string `mapstructure:"cmd_list" json:"cmd_list"`
}

type LogS struct {
	Level string `mapstructure:"level"`
	// text, json
	Format string `mapstructure:"format"`
}

type PprofDebugS struct {
	Enable bool   `mapstructure:"enable"`
	Port   uint16 `mapstructure:"port"`
}
