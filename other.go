package main

import (
	"github.com/tidwall/redcon"

	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/router"
)

func init() {
	addCommand("PING", cmdPING)
	addCommand("ECHO", cmdECHO)
	addCommand("COMMAND", cmdCOMMAND)
	addCommand("INFO", cmdINFO)
}

func cmdPING(a *App, c *router.Context) error {
	if len(c.Args) == 2 {
		c.Reply = string(c.Args[1])
		return nil
	}
	c.Reply = redcon.SimpleString("PONG")
	return nil
}

func cmdECHO(a *App, c *router.Context) error {
	c.Reply = string(c.Args[1])
	return nil
}

// cmdCOMMAND lists the commands the server answers.
func cmdCOMMAND(a *App, c *router.Context) error {
	names := commandNames()
	reply := make([]interface{}, 0, len(names)+1)
	for _, name := range names {
		reply = append(reply, name)
	}
	reply = append(reply, "QUIT")
	c.Reply = reply
	return nil
}

func cmdINFO(a *App, c *router.Context) error {
	var section string
	if len(c.Args) == 2 {
		section = string(c.Args[1])
	}
	c.Reply = a.info().Dump(section)
	return nil
}
