// main holds the entry logic for trendspot CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/trendspot/cmd"
	"github.com/huangsam/trendspot/internal/contract"
	"github.com/huangsam/trendspot/internal/iocache"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run wires the persistence layer into the CLI and ensures stores are closed
// on the way out, whatever the command outcome.
func run() error {
	cmd.SetStoreManager(iocache.Manager)
	defer iocache.CloseStores()

	err := cmd.Execute()

	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}

	return err
}
