// Command plume operates a local plume ledger: it manages the actor's key
// vault and submits signed operations against an embedded store.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
