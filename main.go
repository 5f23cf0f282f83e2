// Command globsize reports the disk usage of files matching glob patterns.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/globsize/internal/cli"
)

// version is set by the linker at build time.
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
