// binctl drives a smart bin from the terminal
//
// Usage:
//
//	binctl toggle
//	binctl stats week
//	binctl watch today --interval 5s
//	binctl search bottle
//	binctl state
package main

import (
	"os"

	"github.com/amitbasuri/smartbin/cmd/binctl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
