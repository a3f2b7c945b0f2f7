package activity

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/mechashelf/admin/internal/domain"
)

// detailLimit truncates free-form detail text to the column size.
const detailLimit = 500

// activityService implements domain.ActivityService.
type activityService struct {
	repo domain.ActivityRepository
}

// NewService creates an ActivityService with the given repository.
func NewService(repo domain.ActivityRepository) domain.ActivityService {
	return &activityService{repo: repo}
}

// Record writes one log entry. It never returns an error: the log is a side
// channel, and a failed write must not fail the mutation it describes. The
// failure is logged instead.
func (s *activityService) Record(ctx context.Context, entity, recordID, recordLabel, action, detail string) {
	if utf8.RuneCountInString(detail) > detailLimit {
		detail = string([]rune(detail)[:detailLimit])
	}
	entry := &domain.Activity{
		Entity:      entity,
		RecordID:    recordID,
		RecordLabel: recordLabel,
		Action:      action,
		Detail:      detail,
	}
	if err := s.repo.Record(ctx, entry); err != nil {
		slog.Error("record activity", "entity", entity, "action", action, "error", err)
	}
}

// List returns a paginated slice of the log.
func (s *activityService) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Activity], error) {
	return s.repo.List(ctx, req)
}

// Prune removes entries older than the retention window. A non-positive
// retention disables pruning.
func (s *activityService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	return s.repo.Prune(ctx, time.Now().Add(-retention))
}
