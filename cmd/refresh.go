package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"kpcoilprice/config"
	"kpcoilprice/data"
	"kpcoilprice/storage"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:     "refresh",
	Short:   "Scrape the price page and overwrite the cache",
	Example: "kpc-oilprice refresh",
	Run: func(cmd *cobra.Command, args []string) {

		err := storage.Setup(config.C)
		if err != nil {
			log.WithError(err).Fatal("storage setup error")
		}

		err = refresh(context.Background(), newFetcher(config.C), os.Stdout)
		storage.Stop()
		if err != nil {
			log.WithError(err).Fatal("refresh failed, cache left untouched")
		}
	},
}

type refresher interface {
	Refresh(ctx context.Context) data.OilPrices
}

// refresh prints the scraped prices to w and fails when the scrape did.
func refresh(ctx context.Context, r refresher, w io.Writer) error {
	prices := r.Refresh(ctx)

	b, err := json.MarshalIndent(prices, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode prices error")
	}
	fmt.Fprintln(w, string(b))

	if msg, ok := prices.Error.Get(); ok {
		return errors.New(msg)
	}
	return nil
}

var flushCmd = &cobra.Command{
	Use:     "flush-cache",
	Short:   "Delete the cached prices",
	Example: "kpc-oilprice flush-cache",
	Run: func(cmd *cobra.Command, args []string) {

		err := storage.Setup(config.C)
		if err != nil {
			log.WithError(err).Fatal("storage setup error")
		}

		defer storage.Stop()

		pc := storage.NewPriceCache(storage.RedisPool(), config.C.Cache.Key)
		if err := pc.Flush(context.Background()); err != nil {
			log.WithError(err).Error("flush price cache error")
			return
		}
		log.WithField("key", pc.Key()).Info("price cache flushed")
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}
