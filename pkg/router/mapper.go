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

type OpFlag uint32

const (
	FlagWrite = 1 << iota
	FlagNotAllow
)

func (f OpFlag) IsNotAllowed() bool {
	return (f & FlagNotAllow) != 0
}

func (f OpFlag) IsReadOnly() bool {
	return (f & FlagWrite) == 0
}

type VerifyFunc func(argsLen int) bool

func equal(num int) VerifyFunc {
	return func(argsLen int) bool {
		return argsLen == num
	}
}

func greater(num int) VerifyFunc {
	return func(argsLen int) bool {
		return argsLen >= num
	}
}

func between(min, max int) VerifyFunc {
	return func(argsLen int) bool {
		return argsLen >= min && argsLen <= max
	}
}

type OpInfo struct {
	Name       string
	Flag       OpFlag
	ArgsVerify VerifyFunc
}

// OpTable holds the arity, command name included, and flags of every
// command the server accepts.
var OpTable = make(map[string]OpInfo, 32)

func init() {
	for _, i := range []OpInfo{
		{"COMMAND", 0, greater(1)},
		{"ECHO", 0, equal(2)},
		{"INFO", 0, between(1, 2)},
		{"PING", 0, between(1, 2)},
		{"QUIT", 0, greater(1)},
		{"MHASH", 0, equal(2)},
		{"SHA256", 0, equal(2)},
		{"SHA256RAW", 0, equal(2)},
		{"TITLEADD", FlagWrite, between(2, 3)},
		{"TITLECOUNT", 0, equal(1)},
		{"TITLEDEL", FlagWrite, equal(2)},
		{"TITLEEXISTS", 0, equal(2)},
		{"TITLEGET", 0, equal(2)},
		{"TITLEHASH", 0, equal(2)},
		{"TITLESCAN", 0, between(2, 4)},
		{"FLUSHALL", FlagWrite | FlagNotAllow, greater(1)},
		{"FLUSHDB", FlagWrite | FlagNotAllow, greater(1)},
		{"MONITOR", FlagNotAllow, greater(1)},
		{"SHUTDOWN", FlagNotAllow, greater(1)},
	} {
		OpTable[i.Name] = i
	}
}
