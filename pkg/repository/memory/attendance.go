package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

type attendanceKey struct {
	userID    types.UserID
	day       types.Day
	channelID types.ChannelID
}

type attendanceRepository struct {
	mu      sync.RWMutex
	records map[attendanceKey]*model.AttendanceRecord
}

func newAttendanceRepository() *attendanceRepository {
	return &attendanceRepository{
		records: make(map[attendanceKey]*model.AttendanceRecord),
	}
}

// Upsert applies read-modify-write semantics under the repository lock
func (r *attendanceRepository) Upsert(ctx context.Context, rec *model.AttendanceRecord) (types.UpsertResult, error) {
	if err := rec.Validate(); err != nil {
		return "", goerr.Wrap(err, "invalid attendance record")
	}

	key := attendanceKey{userID: rec.UserID, day: rec.Day, channelID: rec.ChannelID}
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[key]
	if !ok {
		stored := *rec
		stored.CreatedAt = now
		stored.UpdatedAt = now
		r.records[key] = &stored
		return types.UpsertCreated, nil
	}

	if existing.Status == rec.Status {
		return types.UpsertUnchanged, nil
	}

	updated := *existing
	updated.Status = rec.Status
	updated.UpdatedAt = now
	r.records[key] = &updated
	return types.UpsertUpdated, nil
}

// Get retrieves a record by its natural key
func (r *attendanceRepository) Get(ctx context.Context, userID types.UserID, day types.Day, channelID types.ChannelID) (*model.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[attendanceKey{userID: userID, day: day, channelID: channelID}]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "attendance record not found",
			goerr.V("user_id", userID), goerr.V("day", day), goerr.V("channel_id", channelID))
	}

	recCopy := *rec
	return &recCopy, nil
}

// ListByChannelDay retrieves all records for a channel on a day
func (r *attendanceRepository) ListByChannelDay(ctx context.Context, channelID types.ChannelID, day types.Day) ([]*model.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*model.AttendanceRecord
	for key, rec := range r.records {
		if key.channelID == channelID && key.day == day {
			recCopy := *rec
			records = append(records, &recCopy)
		}
	}

	return records, nil
}
