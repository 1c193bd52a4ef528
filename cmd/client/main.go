package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/profilekeeper/internal/client/app"
	"github.com/dmitrijs2005/profilekeeper/internal/client/cli"
	"github.com/dmitrijs2005/profilekeeper/internal/client/config"
	"github.com/dmitrijs2005/profilekeeper/internal/client/tui"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	a, err := app.New(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}
	defer a.Close()

	switch cfg.UI {
	case config.UITUI:
		if err := tui.Run(ctx, a.Session, a.Logger); err != nil {
			a.Logger.Error(ctx, "tui", "error", err)
		}
	default:
		cli.NewApp(a.Session, a.Uploader, a.Logger).Run(ctx)
	}

}
