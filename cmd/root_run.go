package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kpcoilprice/api"
	"kpcoilprice/config"
	"kpcoilprice/storage"

	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func run(cmd *cobra.Command, args []string) {

	log.WithField("version", version).Info("starting KPC oil price server")

	err := storage.Setup(config.C)
	if err != nil {
		log.WithError(err).Fatal("storage setup error")
	}

	fetcher := newFetcher(config.C)

	if spec := config.C.Schedule.Refresh; spec != "" {
		tm := cron.New()
		err = tm.AddFunc(spec, func() {
			log.Info("schedule task, refreshing prices from website")
			fetcher.Refresh(context.Background())
		})
		if err != nil {
			log.WithError(err).Fatal("cannot start scheduled task")
		}
		tm.Start()
		defer tm.Stop()
	}

	server := &http.Server{
		Addr:    config.C.HTTP.Bind,
		Handler: api.NewRouter(fetcher),
	}

	go func() {
		log.WithField("bind", server.Addr).Info("api: starting http server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("api: http server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	exitChan := make(chan struct{})
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	log.WithField("signal", <-sigChan).Info("signal received")
	go func() {
		log.Warning("stopping KPC oil price server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.WithError(err).Error("api: http server shutdown error")
		}
		if err := storage.Stop(); err != nil {
			log.Fatal(err)
		}
		exitChan <- struct{}{}
	}()
	select {
	case <-exitChan:
	case s := <-sigChan:
		log.WithField("signal", s).Info("signal received, stop immediately")
	}
}
