// Command pustakactl administers a pustaka deployment from the shell: it seeds
// the catalog, runs playlist metadata generation and inspects quota usage.
// It reads the same config/{ENV}.yaml as the API server.
//
//	pustakactl seed -f catalog.yaml
//	pustakactl playlists generate --missing
//	pustakactl books describe --id b-001
//	pustakactl usage
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := newRootCmd(openClient).ExecuteContext(ctx); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
