// cmd/hedlab/main.go
package main

import (
	hedlab "github.com/mwiater/hedlab/internal/commands"
)

// Set by -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = hedlab.SetVersionInfo
	executeCmd     = hedlab.Execute
)

// main injects build information and hands control to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
