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

package router

import (
	"time"

	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/monitor"
	"github.com/IceFireDB/IceFireDB-Fingerprint/utils"
)

// MonitorMiddleware counts and times every command and records slow ones.
// Commands in slowQueryIgnoreCMD are never reported as slow.
func MonitorMiddleware(mon *monitor.Monitor, slowQueryIgnoreCMD []string) HandlerFunc {
	return func(ctx *Context) error {
		start := time.Now()
		err := ctx.Next()
		end := time.Now()

		mon.ObserveCommand(ctx.Cmd, err, end.Sub(start))
		if mon.SlowQueryConf.Enable && !utils.InArray(ctx.Cmd, slowQueryIgnoreCMD) {
			mon.IsSlowQuery(ctx.Args, start, end)
		}
		return err
	}
}
