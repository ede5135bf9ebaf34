// Command internctl inspects symbol files offline: it hashes strings, reports
// which preload symbols collide, and exports the resulting table.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
