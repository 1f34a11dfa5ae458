package utils

import (
	"strings"
)

// Command aliases accepted from clients of other dedup services.
var cmdAliases = map[string]string{
	"SHA256SUM":  "SHA256",
	"HASHTITLE":  "TITLEHASH",
	"TITLESETNX": "TITLEADD",
}

// CmdRewrite upper-cases the command name in args[0] and replaces known
// aliases with their canonical name. It returns the canonical name.
func CmdRewrite(args [][]byte) string {
	if len(args) == 0 {
		return ""
	}
	name := strings.ToUpper(string(args[0]))
	if canonical, ok := cmdAliases[name]; ok {
		name = canonical
	}
	args[0] = []byte(name)
	return name
}
