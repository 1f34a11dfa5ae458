package main

import (
	"github.com/tidwall/redcon"

	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/router"
	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/sha256"
)

func init() {
	addCommand("SHA256", cmdSHA256)
	addCommand("SHA256RAW", cmdSHA256RAW)
	addCommand("MHASH", cmdMHASH)
	addCommand("TITLEHASH", cmdTITLEHASH)
}

// cmdSHA256 hashes the characters of the message, one byte per character.
func cmdSHA256(a *App, c *router.Context) error {
	d, err := sha256.Digest(string(c.Args[1]))
	if err != nil {
		return err
	}
	c.Reply = d
	return nil
}

// cmdSHA256RAW hashes the argument bytes as sent.
func cmdSHA256RAW(a *App, c *router.Context) error {
	c.Reply = sha256.DigestBytes(c.Args[1])
	return nil
}

func cmdMHASH(a *App, c *router.Context) error {
	mh, err := a.hasher.Multihash(string(c.Args[1]))
	if err != nil {
		return err
	}
	c.Reply = redcon.SimpleString(mh)
	return nil
}

func cmdTITLEHASH(a *App, c *router.Context) error {
	res, err := a.hasher.Fingerprint(string(c.Args[1]))
	if err != nil {
		return err
	}
	c.Reply = res.Fingerprint
	return nil
}
