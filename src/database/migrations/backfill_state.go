package migrations

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const backfillStockStateSQL = `INSERT INTO "tStockState" ("idSymbol", "status", "buy", "shouldSell", "sell", "invested", "shares", "maxValue", "amountBuySell") ` +
	`SELECT s.id, 'close', false, false, false, 0, 0, 0, 0 ` +
	`FROM "tStockSymbols" s ` +
	`LEFT JOIN "tStockState" t ON t."idSymbol" = s.id ` +
	`WHERE t."idSymbol" IS NULL`

// backfillMissingStockState gives every symbol without a state row a closed
// one, so each symbol ends up with exactly one state row.
func backfillMissingStockState(db *gorm.DB) error {
	res := db.Exec(backfillStockStateSQL)
	if res.Error != nil {
		return fmt.Errorf("insert missing state rows: %w", res.Error)
	}

	logrus.WithField("rows", res.RowsAffected).Info("[migrations] backfilled missing tStockState rows")

	return nil
}
