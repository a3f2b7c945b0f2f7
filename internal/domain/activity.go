package domain

import (
	"context"
	"time"
)

// Mutation actions recorded in the activity log.
const (
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionSoftDelete = "soft_delete"
)

// Activity is one recorded console mutation against the catalog backend.
// The log is local to the console; the backend itself is never written to
// except through the recorded call.
type Activity struct {
	BaseModel
	Entity      string `gorm:"size:50;not null;index" json:"entity"`
	RecordID    string `gorm:"size:50;not null" json:"record_id"`
	RecordLabel string `gorm:"size:255" json:"record_label"`
	Action      string `gorm:"size:20;not null" json:"action"`
	Detail      string `gorm:"size:500" json:"detail"`
}

// ActivityRepository defines the data access interface for the activity log.
type ActivityRepository interface {
	Record(ctx context.Context, a *Activity) error
	List(ctx context.Context, req PageRequest) (*PageResult[Activity], error)
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}

// ActivityService defines the business interface for the activity log.
type ActivityService interface {
	Record(ctx context.Context, entity, recordID, recordLabel, action, detail string)
	List(ctx context.Context, req PageRequest) (*PageResult[Activity], error)
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}
