package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/finmate/internal/client/bootstrap"
	"github.com/dmitrijs2005/finmate/internal/client/config"
	"github.com/dmitrijs2005/finmate/internal/client/metrics"
	"github.com/dmitrijs2005/finmate/internal/client/notify"
	"github.com/dmitrijs2005/finmate/internal/client/web"
	"github.com/dmitrijs2005/finmate/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel, "json")

	flash := &notify.Queue{}
	st, err := bootstrap.Build(ctx, cfg, flash, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer st.Close()

	h, err := web.NewHandler(web.Deps{
		Session:  st.Session,
		Catalog:  st.Catalog,
		Articles: st.Articles,
		Router:   st.Router,
		Flash:    flash,
		Metrics:  metrics.Handler(st.Registry),
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := web.Serve(ctx, cfg.ListenAddr, h, logger); err != nil {
		logger.Error(ctx, "view server stopped", "err", err)
		os.Exit(1)
	}

}
