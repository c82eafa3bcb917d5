package service

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ahora is indirected so tests can pin the clock.
var ahora = time.Now

func fmtTime(t time.Time) string { return t.Format(time.RFC3339) }

func fmtDate(t time.Time) string { return t.Format("2006-01-02") }
