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
	"math"
)

const AbortIndex int8 = math.MaxInt8 / 2

type HandlerFunc func(c *Context) error

type HandlersChain []HandlerFunc

// Last returns the final handler of the chain, the command itself.
func (c HandlersChain) Last() HandlerFunc {
	if length := len(c); length > 0 {
		return c[length-1]
	}
	return nil
}

type Context struct {
	ConnID   string
	Args     [][]byte
	Cmd      string
	Handlers HandlersChain // Middleware and final handler functions
	Index    int8
	Op       OpFlag
	Reply    interface{}
}

func (c *Context) Reset() {
	c.ConnID = ""
	c.Args = nil
	c.Cmd = ""
	c.Handlers = nil
	c.Index = -1
	c.Op = 0
	c.Reply = nil
}

// Next executes the pending handlers in the chain. Only middleware should
// call it.
func (c *Context) Next() error {
	c.Index++
	for c.Index < int8(len(c.Handlers)) {
		err := c.Handlers[c.Index](c)
		if err != nil {
			return err
		}
		c.Index++
	}
	return nil
}

func (c *Context) IsAborted() bool {
	return c.Index >= AbortIndex
}

// Abort prevents pending handlers from being called. It does not stop the
// current handler.
func (c *Context) Abort() {
	c.Index = AbortIndex
}
