package cmd

import (
	"testing"

	"kpcoilprice/config"
)

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		var c config.Config
		c.Cache.Connection = "redis://localhost:6379"
		c.Cache.ExpirationInHours = 24
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{"defaults", func(c *config.Config) {}, false},
		{"refresh schedule", func(c *config.Config) { c.Schedule.Refresh = "0 0 */6 * * *" }, false},
		{"zero expiration", func(c *config.Config) { c.Cache.ExpirationInHours = 0 }, true},
		{"no connection", func(c *config.Config) { c.Cache.Connection = "" }, true},
		{"bad schedule", func(c *config.Config) { c.Schedule.Refresh = "every now and then" }, true},
	}

	for _, tst := range tests {
		t.Run(tst.name, func(t *testing.T) {
			c := valid()
			tst.mutate(&c)
			err := validate(c)
			if (err != nil) != tst.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tst.wantErr)
			}
		})
	}
}
