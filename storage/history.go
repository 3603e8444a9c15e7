package storage

import (
	"context"
	"sort"
	"time"

	"kpcoilprice/data"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// PriceHistory is one archived quote of a price series.
type PriceHistory struct {
	ID        uint      `gorm:"column:history_id;primary_key"`
	Series    string    `gorm:"column:series;size:32;unique_index:idx_series_date"`
	QuoteDate string    `gorm:"column:quote_date;size:64;unique_index:idx_series_date"`
	Price     string    `gorm:"column:price;size:64"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (p PriceHistory) TableName() string {
	return "oil_price_history"
}

// InsertPriceHistory upserts every present pair of prices keyed by series and quote date.
func InsertPriceHistory(ctx context.Context, db *gorm.DB, prices data.OilPrices) error {
	now := time.Now()
	series := prices.Series()

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		op := series[name]
		var count int

		r := db.Table("oil_price_history").Where("series = ? AND quote_date = ?", name, op.Date).Count(&count)
		if r.Error != nil {
			return errors.Wrap(r.Error, "get count failed")
		}

		if count > 0 {
			log.WithFields(log.Fields{"series": name, "date": op.Date}).Debug("storage: update price history")
			err := db.Exec("UPDATE oil_price_history SET price=?,updated_at=? WHERE series=? AND quote_date=?",
				op.Price, now, name, op.Date).Error
			if err != nil {
				return errors.Wrap(err, "update price history failed")
			}
		} else {
			log.WithFields(log.Fields{"series": name, "date": op.Date}).Debug("storage: insert price history")
			err := db.Exec("INSERT INTO oil_price_history (series,quote_date,price,created_at,updated_at) VALUES (?,?,?,?,?)",
				name, op.Date, op.Price, now, now).Error
			if err != nil {
				return errors.Wrap(err, "insert price history failed")
			}
		}
	}

	return nil
}

// HistoryRecorder archives scraped prices in the history table.
type HistoryRecorder struct {
	db *gorm.DB
}

func NewHistoryRecorder(db *gorm.DB) *HistoryRecorder {
	return &HistoryRecorder{db: db}
}

func (r *HistoryRecorder) RecordPrices(ctx context.Context, prices data.OilPrices) error {
	return Transaction(r.db, func(tx *gorm.DB) error {
		return InsertPriceHistory(ctx, tx, prices)
	})
}
