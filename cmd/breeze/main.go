// Command breeze queries a Breeze ChMS instance and prints normalized JSON.
//
// Connection settings come from the environment (BREEZE_URL, BREEZE_API_KEY
// and the optional BREEZE_* tuning variables). The normalize subcommand works
// offline on saved payloads.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
