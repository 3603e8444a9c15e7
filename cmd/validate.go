package cmd

import (
	"kpcoilprice/config"

	"github.com/pkg/errors"
	"github.com/robfig/cron"
)

func validate(c config.Config) error {
	if c.Cache.ExpirationInHours <= 0 {
		return errors.Errorf("cache.expiration_in_hours must be positive, got %d", c.Cache.ExpirationInHours)
	}
	if c.Cache.Connection == "" {
		return errors.New("cache.connection is required")
	}
	if c.Schedule.Refresh != "" {
		if _, err := cron.Parse(c.Schedule.Refresh); err != nil {
			return errors.Wrap(err, "schedule.refresh")
		}
	}
	return nil
}
