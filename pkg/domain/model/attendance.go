package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

// AttendanceRecord is one attendance entry. The natural key is
// (UserID, Day, ChannelID); at most one record exists per key.
type AttendanceRecord struct {
	UserID    types.UserID
	Day       types.Day
	ChannelID types.ChannelID
	Status    types.StatusAction
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the record is storable
func (r *AttendanceRecord) Validate() error {
	if err := r.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid attendance user ID")
	}
	if err := r.Day.Validate(); err != nil {
		return goerr.Wrap(err, "invalid attendance day")
	}
	if err := r.ChannelID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid attendance channel ID")
	}
	if !r.Status.IsValid() {
		return goerr.New("invalid attendance status", goerr.V("status", r.Status))
	}
	return nil
}
