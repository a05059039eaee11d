package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gitlab.com/aoterocom/AOCryptomarket/commands"
	"gitlab.com/aoterocom/AOCryptomarket/helpers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.NewApp().RunContext(ctx, os.Args); err != nil {
		helpers.Logger.Errorln(err)
		stop()
		os.Exit(1)
	}
}
