package pkg

import "gorm.io/gorm"

// WithTx runs fn inside one transaction on the console's local database,
// committing on success and rolling back on error or panic. The activity log
// uses it for its multi-row maintenance work.
func WithTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
