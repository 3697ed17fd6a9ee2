// Command flatload loads MIS fixed-width extracts (and the pipe-delimited
// SCFF sibling feed) into a relational warehouse. Every load replaces the
// partition it carries, so a rerun of the same files converges on the same
// table contents.
//
//	flatload run /data/mis/2024FA            # load one term folder
//	flatload scff /data/scff                 # load every academic year
//	flatload probe /data/mis/2024FA          # decode only, no database
//	flatload layouts                         # print the record layouts
//	flatload validate -config flatload.json  # check a config file
//
// SIGINT aborts a run: the open transaction is rolled back, the tables the
// run created are dropped and the connection is closed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	// register every storage backend; the config picks one.
	_ "flatload/internal/storage/all"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "flatload:", err)
		stop()
		os.Exit(1)
	}
}
