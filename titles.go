package main

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/tidwall/redcon"

	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/monitor"
	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/router"
	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/titlestore"
)

var ErrSyntax = errors.New("syntax error")

// scanCursorStart is the cursor that starts and ends a TITLESCAN iteration.
const scanCursorStart = "0"

func init() {
	addCommand("TITLEADD", cmdTITLEADD)
	addCommand("TITLEEXISTS", cmdTITLEEXISTS)
	addCommand("TITLEGET", cmdTITLEGET)
	addCommand("TITLEDEL", cmdTITLEDEL)
	addCommand("TITLECOUNT", cmdTITLECOUNT)
	addCommand("TITLESCAN", cmdTITLESCAN)
}

// addTitle fingerprints title and stores it unless it was seen before,
// locally or upstream. It reports whether the title is new.
func (a *App) addTitle(title, source string) (bool, string, error) {
	res, err := a.hasher.Fingerprint(title)
	if err != nil {
		a.mon.ObserveTitle(monitor.TitleRejected)
		return false, "", err
	}

	seenUpstream := false
	if a.mirror != nil && a.cfg.Mirror.CheckUpstream {
		seenUpstream, err = a.mirror.Seen(res.Fingerprint)
		if err != nil {
			logrus.Warnf("upstream lookup of %s: %v", res.Fingerprint, err)
			seenUpstream = false
		}
	}

	added, err := a.titles.AddIfAbsent(titlestore.Record{
		Fingerprint: res.Fingerprint,
		Title:       title,
		Normalized:  res.Normalized,
		Source:      source,
	})
	if err != nil {
		return false, "", err
	}

	if !added || seenUpstream {
		a.mon.ObserveTitle(monitor.TitleDuplicate)
		return false, res.Fingerprint, nil
	}
	if a.mirror != nil {
		a.mirror.Publish(res.Fingerprint)
	}
	a.mon.ObserveTitle(monitor.TitleAdded)
	return true, res.Fingerprint, nil
}

func cmdTITLEADD(a *App, c *router.Context) error {
	var source string
	if len(c.Args) == 3 {
		source = string(c.Args[2])
	}
	added, _, err := a.addTitle(string(c.Args[1]), source)
	if err != nil {
		return err
	}
	if added {
		c.Reply = redcon.SimpleInt(1)
	} else {
		c.Reply = redcon.SimpleInt(0)
	}
	return nil
}

func cmdTITLEEXISTS(a *App, c *router.Context) error {
	res, err := a.hasher.Fingerprint(string(c.Args[1]))
	if err != nil {
		return err
	}
	ok, err := a.titles.Exists(res.Fingerprint)
	if err != nil {
		return err
	}
	if ok {
		c.Reply = redcon.SimpleInt(1)
	} else {
		c.Reply = redcon.SimpleInt(0)
	}
	return nil
}

func cmdTITLEGET(a *App, c *router.Context) error {
	res, err := a.hasher.Fingerprint(string(c.Args[1]))
	if err != nil {
		return err
	}
	rec, err := a.titles.Get(res.Fingerprint)
	if err != nil {
		return err
	}
	if rec == nil {
		c.Reply = nil
		return nil
	}
	c.Reply = rec.Fields()
	return nil
}

func cmdTITLEDEL(a *App, c *router.Context) error {
	res, err := a.hasher.Fingerprint(string(c.Args[1]))
	if err != nil {
		return err
	}
	deleted, err := a.titles.Delete(res.Fingerprint)
	if err != nil {
		return err
	}
	if deleted {
		c.Reply = redcon.SimpleInt(1)
	} else {
		c.Reply = redcon.SimpleInt(0)
	}
	return nil
}

func cmdTITLECOUNT(a *App, c *router.Context) error {
	c.Reply = redcon.SimpleInt(a.titles.Count())
	return nil
}

// cmdTITLESCAN pages through stored fingerprints: TITLESCAN cursor [COUNT n].
// Cursor 0 starts the iteration and a returned cursor of 0 ends it.
func cmdTITLESCAN(a *App, c *router.Context) error {
	cursor := string(c.Args[1])
	if cursor == scanCursorStart {
		cursor = ""
	}

	count := titlestore.DefaultScanCount
	switch len(c.Args) {
	case 2:
	case 4:
		if !strings.EqualFold(string(c.Args[2]), "COUNT") {
			return ErrSyntax
		}
		n, err := cast.ToIntE(string(c.Args[3]))
		if err != nil || n <= 0 {
			return ErrSyntax
		}
		count = n
	default:
		return ErrSyntax
	}

	next, fps, err := a.titles.Scan(cursor, count)
	if err != nil {
		return err
	}
	if next == "" {
		next = scanCursorStart
	}
	if fps == nil {
		fps = []string{}
	}
	c.Reply = []interface{}{next, fps}
	return nil
}
