package main

import (
	"github.com/urfave/cli"
)

const appName = "IceFireDB-Fingerprint"

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config,c",
		Usage: "config file, defaults apply when it does not exist",
		Value: "config/config.yaml",
	},
	cli.StringFlag{
		Name:  "env-file",
		Usage: "dotenv file exported before the config is read",
		Value: ".env",
	},
	cli.StringFlag{
		Name:  "addr,a",
		Usage: "bind to address, overrides server.addr",
	},
	cli.StringFlag{
		Name:  "data-dir,d",
		Usage: "data directory, overrides storage.data_dir",
	},
	cli.StringFlag{
		Name:  "storage-backend",
		Usage: "storage backend [hybriddb,badger], overrides storage.backend",
	},
	cli.StringFlag{
		Name:  "log-level,l",
		Usage: "log level [debug,info,warn,error], overrides log.level",
	},
}

var digestFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "raw",
		Usage: "hash the argument bytes instead of its characters",
	},
	cli.StringFlag{
		Name:  "file,f",
		Usage: "hash the bytes of a file, - for stdin",
	},
}

var importFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "file,f",
		Usage: "file with one title per line, - for stdin",
		Value: "-",
	},
	cli.IntFlag{
		Name:  "workers,w",
		Usage: "concurrent writers",
		Value: 4,
	},
	cli.StringFlag{
		Name:  "source,s",
		Usage: "source recorded with every imported title",
		Value: "import",
	},
}

var backupFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "out,o",
		Usage: "snapshot file to write",
		Value: "fingerprints.snapshot",
	},
}

var restoreFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "in,i",
		Usage: "snapshot file to read",
		Value: "fingerprints.snapshot",
	},
}
