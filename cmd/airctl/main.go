// Binary airctl is a command line client for the air-monitoring backend. It prints stat
// cards, monthly and half-hourly averages and controller locations, exports readings as
// CSV and uploads controller firmware.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
