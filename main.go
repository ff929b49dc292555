package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rentops/owner-ledger/cmd/ingest"
	"rentops/owner-ledger/cmd/parse"
	"rentops/owner-ledger/cmd/report"
	"rentops/owner-ledger/cmd/root"
)

func init() {
	root.Init()
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(report.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
