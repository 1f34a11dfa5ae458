package main

import (
	"fmt"
	"io"
)

// BuildDate: Binary file compilation time
// BuildVersion: Binary compiled GIT version
var (
	BuildDate    string
	BuildVersion string
)

const banner = `  ____        _____         ___  ___     _____
  /  _/______ / __(_)______ / _ \/ _ )   / __(_)__  ___ ____ ____
 _/ // __/ -_) _// / __/ -_) // / _  |  / _// / _ \/ _ ` + "`" + `/ -_) __/
/___/\__/\__/_/ /_/_/  \__/____/____/  /_/ /_/_//_/\_, /\__/_/
                                                  /___/
`

func printBanner(w io.Writer) {
	fmt.Fprintln(w, banner)
}
