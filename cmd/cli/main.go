package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/finmate/internal/client/bootstrap"
	"github.com/dmitrijs2005/finmate/internal/client/cli"
	"github.com/dmitrijs2005/finmate/internal/client/config"
	"github.com/dmitrijs2005/finmate/internal/client/notify"
	"github.com/dmitrijs2005/finmate/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel, "text")

	st, err := bootstrap.Build(ctx, cfg, notify.NewWriter(os.Stdout), logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer st.Close()

	app := cli.NewApp(cli.Deps{
		Session:  st.Session,
		Catalog:  st.Catalog,
		Articles: st.Articles,
		Router:   st.Router,
		Logger:   logger,
	})
	app.Run(ctx)

}
