// Package activity keeps a local audit trail of every mutation the console
// sends to the catalog backend. The backend has no history of its own; this
// log is the only record of who changed what and when.
package activity

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mechashelf/admin/internal/domain"
	"github.com/mechashelf/admin/internal/pkg"
)

// Allowed fields for sorting and filtering in List queries.
var (
	allowedSortFields   = []string{"id", "entity", "action", "created_at"}
	allowedFilterFields = []string{"entity", "action", "record_id", "record_label"}
)

// activityRepository implements domain.ActivityRepository using GORM.
type activityRepository struct {
	db *gorm.DB
}

// NewRepository creates an ActivityRepository backed by the given GORM database.
func NewRepository(db *gorm.DB) domain.ActivityRepository {
	return &activityRepository{db: db}
}

// Record inserts one activity row.
func (r *activityRepository) Record(ctx context.Context, a *domain.Activity) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// List returns a paginated, sorted, and filtered slice of the log.
func (r *activityRepository) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Activity], error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&domain.Activity{}).
		Scopes(pkg.Filter(req, allowedFilterFields))

	if err := base.Count(&total).Error; err != nil {
		return nil, mapError(err)
	}

	var entries []domain.Activity
	if err := base.Scopes(
		pkg.Paginate(req),
		pkg.Sort(req, allowedSortFields),
	).Find(&entries).Error; err != nil {
		return nil, mapError(err)
	}

	return pkg.NewPageResult(entries, total, req), nil
}

// Prune deletes entries created before the cutoff and reports how many went.
// The delete runs in a transaction so a partial prune never survives.
func (r *activityRepository) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	var removed int64
	err := pkg.WithTx(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		result := tx.Where("created_at < ?", olderThan).Delete(&domain.Activity{})
		if result.Error != nil {
			return mapError(result.Error)
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}
