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
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/IceFireDB/IceFireDB-Fingerprint/utils"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrArguments      = errors.New("wrong number of arguments")
	ErrEmptyCommand   = errors.New("empty command")
)

type IRoutes interface {
	Use(...HandlerFunc) IRoutes
	AddCommand(string, ...HandlerFunc) IRoutes
}

var _ IRoutes = (*Router)(nil)

type Router struct {
	MiddleWares HandlersChain
	cmd         map[string]HandlersChain
	pool        sync.Pool
}

func New() *Router {
	r := &Router{
		cmd: make(map[string]HandlersChain),
	}
	r.pool.New = func() interface{} {
		return &Context{}
	}
	return r
}

// Use appends middleware. Commands added afterwards run behind it.
func (r *Router) Use(funcs ...HandlerFunc) IRoutes {
	r.MiddleWares = append(r.MiddleWares, funcs...)
	return r
}

func (r *Router) AddCommand(operation string, handlers ...HandlerFunc) IRoutes {
	if _, ok := OpTable[operation]; !ok {
		panic(fmt.Sprintf("command %s is missing from the op table", operation))
	}
	r.cmd[operation] = r.combineHandlers(handlers)
	return r
}

// Commands lists the registered command names.
func (r *Router) Commands() []string {
	names := make([]string, 0, len(r.cmd))
	for name := range r.cmd {
		names = append(names, name)
	}
	return names
}

// Handle runs args through the middleware chain and the command handler and
// returns the reply the handler set.
func (r *Router) Handle(connID string, args [][]byte) (reply interface{}, err error) {
	defer func() {
		if p := recover(); p != nil {
			logrus.Errorf("handle panic: %v", p)
			reply, err = nil, fmt.Errorf("internal error: %v", p)
		}
	}()
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}

	cmdType := utils.CmdRewrite(args)
	op, ok := OpTable[cmdType]
	handlers, registered := r.cmd[cmdType]
	if !ok || !registered || op.Flag.IsNotAllowed() {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownCommand, args[0])
	}
	if !op.ArgsVerify(len(args)) {
		return nil, fmt.Errorf("%w for '%s' command", ErrArguments, cmdType)
	}

	c := r.pool.Get().(*Context)
	defer func() {
		c.Reset()
		r.pool.Put(c)
	}()
	c.Index = -1
	c.ConnID = connID
	c.Args = args
	c.Cmd = cmdType
	c.Op = op.Flag
	c.Handlers = handlers
	c.Reply = nil

	err = c.Next()
	return c.Reply, err
}

func (r *Router) combineHandlers(handlers HandlersChain) HandlersChain {
	finalSize := len(r.MiddleWares) + len(handlers)
	if finalSize >= int(AbortIndex) {
		panic("too many handlers")
	}
	mergedHandlers := make(HandlersChain, finalSize)
	copy(mergedHandlers, r.MiddleWares)
	copy(mergedHandlers[len(r.MiddleWares):], handlers)
	return mergedHandlers
}
