// Command hotelview searches hotels and shows hotel pages with live room
// prices.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alex-user-go/hotelview/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
