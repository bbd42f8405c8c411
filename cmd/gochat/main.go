package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"aiupstart.com/go-chat/internal/utils"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("gochat failed")
		os.Exit(1)
	}
}
