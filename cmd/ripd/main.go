// Command ripd runs one instance of the RIP-derived distance-vector
// routing daemon described by internal/scheduler.
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
