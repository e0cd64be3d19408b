// Command lotplan plans production and inventory over a horizon of periods.
//
//	lotplan solve  -i data/ -o out/      solve and write production_flow and costs
//	lotplan check  -i data.json          print the data integrity report
//	lotplan schema                       list tables, fields and parameters
//	lotplan serve  --addr :8080          serve the HTTP API
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// cobra has already printed the error.
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
