package interfaces

import (
	"context"

	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

// AttendanceRepository maintains at most one record per
// (user, day, channel). All operations are atomic at the storage layer so
// overlapping requests for the same key need no application-level locking.
type AttendanceRepository interface {
	// Upsert applies read-modify-write semantics over the natural key:
	// no record -> UpsertCreated; different status -> UpsertUpdated
	// (last write wins); identical status -> UpsertUnchanged with no
	// store write.
	Upsert(ctx context.Context, rec *model.AttendanceRecord) (types.UpsertResult, error)

	// Get retrieves a record by its natural key. Returns ErrNotFound
	// (wrapped) when absent.
	Get(ctx context.Context, userID types.UserID, day types.Day, channelID types.ChannelID) (*model.AttendanceRecord, error)

	// ListByChannelDay retrieves all records for a channel on a day,
	// used by the roster flow to classify members.
	ListByChannelDay(ctx context.Context, channelID types.ChannelID, day types.Day) ([]*model.AttendanceRecord, error)
}
