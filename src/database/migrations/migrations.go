package migrations

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AppliedMigration marks a stock data fix as done so that a restart of the
// panel does not repeat it.
type AppliedMigration struct {
	ID        string    `gorm:"primaryKey;size:200;column:id"`
	AppliedAt time.Time `gorm:"not null;column:appliedAt"`
}

func (AppliedMigration) TableName() string { return "tDataMigrations" }

type dataMigration struct {
	id  string
	run func(*gorm.DB) error
}

// dataMigrations run in order. Ids are stored, never renumber them.
var dataMigrations = []dataMigration{
	{id: "00001_backfill_missing_stock_state", run: backfillMissingStockState},
}

// RunOnce applies run inside one transaction unless id is already recorded
// in tDataMigrations. A failed run leaves no record, so it is retried on the
// next start.
func RunOnce(db *gorm.DB, id string, run func(*gorm.DB) error) error {
	if db == nil {
		return nil
	}
	if id == "" {
		return errors.New("data migration without id")
	}
	if run == nil {
		return fmt.Errorf("data migration %q has nothing to run", id)
	}
	if err := db.AutoMigrate(&AppliedMigration{}); err != nil {
		return fmt.Errorf("create tDataMigrations: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		done, err := alreadyApplied(tx, id)
		if err != nil {
			return fmt.Errorf("look up data migration %q: %w", id, err)
		}
		if done {
			return nil
		}

		if err := run(tx); err != nil {
			return fmt.Errorf("data migration %q: %w", id, err)
		}

		mark := AppliedMigration{ID: id, AppliedAt: time.Now().UTC()}
		if err := tx.Create(&mark).Error; err != nil {
			return fmt.Errorf("mark data migration %q applied: %w", id, err)
		}
		logrus.WithField("id", id).Info("[migrations] applied")
		return nil
	})
}

func alreadyApplied(tx *gorm.DB, id string) (bool, error) {
	var mark AppliedMigration
	err := tx.First(&mark, "id = ?", id).Error
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Run brings existing stock data in line with the schema after AutoMigrate,
// starting with a closed tStockState row for every symbol that lacks one.
func Run(db *gorm.DB) error {
	for _, m := range dataMigrations {
		if err := RunOnce(db, m.id, m.run); err != nil {
			return err
		}
	}
	return nil
}
