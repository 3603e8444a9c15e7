package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"kpcoilprice/data"
)

type stubRefresher struct {
	prices data.OilPrices
}

func (s stubRefresher) Refresh(ctx context.Context) data.OilPrices {
	return s.prices
}

func TestRefresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		prices := data.OilPrices{CurrentKec: data.Some(data.OilPrice{Price: "95.20", Date: "2024-01-01"})}

		var out bytes.Buffer
		if err := refresh(context.Background(), stubRefresher{prices: prices}, &out); err != nil {
			t.Fatal(err)
		}

		var printed data.OilPrices
		if err := json.Unmarshal(out.Bytes(), &printed); err != nil {
			t.Fatal(err)
		}
		if printed != prices {
			t.Errorf("printed %+v, want %+v", printed, prices)
		}
	})

	t.Run("scrape failure", func(t *testing.T) {
		prices := data.OilPrices{Error: data.Some(`element "lblKEC" not found on price page`)}

		var out bytes.Buffer
		err := refresh(context.Background(), stubRefresher{prices: prices}, &out)
		if err == nil || !strings.Contains(err.Error(), "lblKEC") {
			t.Fatalf("err = %v, want scrape error", err)
		}
		if !strings.Contains(out.String(), `"Error"`) {
			t.Errorf("payload not printed: %s", out.String())
		}
	})
}
