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

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/IceFireDB/IceFireDB-Fingerprint/utils"
)

var (
	ErrConfigNotInit       = errors.New("config not init")
	ErrDuplicateInitConfig = errors.New("duplicate init config")
	ErrInvalidConfig       = errors.New("invalid config")
)

const EnvPrefix = "FINGERPRINT"

var backends = []string{"hybriddb", "badger"}

// Global configuration
var _config *Config

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "127.0.0.1:11001")

	v.SetDefault("storage.backend", "hybriddb")
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.hot_cache_size", 64)
	v.SetDefault("storage.compression", true)
	v.SetDefault("storage.sync_writes", false)
	v.SetDefault("storage.slot_num", 1024)

	v.SetDefault("fingerprint.encode_utf8", false)

	v.SetDefault("mirror.enable", false)
	v.SetDefault("mirror.key", "fingerprints")
	v.SetDefault("mirror.check_upstream", false)
	v.SetDefault("mirror.queue_size", 4096)
	v.SetDefault("mirror.max_retries", 5)
	v.SetDefault("mirror.conn_timeout", 1000)
	v.SetDefault("mirror.pool_size", 16)

	v.SetDefault("prometheus_exporter.enable", false)
	v.SetDefault("prometheus_exporter.address", ":19090")

	v.SetDefault("slowquery.enable", false)
	v.SetDefault("slowquery.threshold_ms", 100)
	v.SetDefault("slowquery.max_list_size", 128)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("pprof_debug.enable", false)
	v.SetDefault("pprof_debug.port", 16060)
}

// LoadDotEnv exports the variables of a .env file into the process
// environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Load reads the configuration held by v. When file is not empty it is read
// first; FINGERPRINT_ prefixed environment variables override both.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	if c.IgnoreCMD.Enable && len(c.IgnoreCMD.CMDList) > 0 {
		CmdToUpper(c.IgnoreCMD.CMDList)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalidConfig)
	}
	if !utils.InArray(c.Storage.Backend, backends) {
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Storage.HotCacheSize <= 0 || c.Storage.SlotNum <= 0 {
		return fmt.Errorf("%w: storage sizes must be positive", ErrInvalidConfig)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}
	if c.Mirror.Enable {
		if c.Mirror.Addr == "" {
			return fmt.Errorf("%w: mirror enabled without addr", ErrInvalidConfig)
		}
		if c.Mirror.QueueSize <= 0 || c.Mirror.PoolSize <= 0 || c.Mirror.MaxRetries < 0 {
			return fmt.Errorf("%w: mirror sizes must be positive", ErrInvalidConfig)
		}
	}
	if c.SlowQuery.Enable && c.SlowQuery.MaxListSize <= 0 {
		return fmt.Errorf("%w: slowquery.max_list_size must be positive", ErrInvalidConfig)
	}
	return nil
}

// InitConfig loads the global configuration from the viper singleton.
func InitConfig(file string) error {
	if _config != nil {
		return ErrDuplicateInitConfig
	}
	c, err := Load(viper.GetViper(), file)
	if err != nil {
		return err
	}
	_config = c
	return nil
}

func Get() *Config {
	return _config
}

// ConfigureLogger applies the log section to the standard logrus logger.
func ConfigureLogger(l LogS) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if l.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func CmdToUpper(list []string) {
	for k := range list {
		list[k] = strings.ToUpper(list[k])
	}
}
