package model

import (
	"time"

	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

// SlackUser is a cached workspace directory entry, refreshed in the
// background and consulted by the roster flow to resolve display names and
// to exclude bot/deleted accounts without per-member API calls.
type SlackUser struct {
	ID        types.UserID
	Name      string
	RealName  string
	IsBot     bool
	Deleted   bool
	UpdatedAt time.Time
}

// DisplayName returns the name used for presentation only, never as a
// storage key
func (u *SlackUser) DisplayName() string {
	if u.RealName != "" {
		return u.RealName
	}
	return u.Name
}

// SlackUserMetadata records directory refresh bookkeeping
type SlackUserMetadata struct {
	LastRefreshSuccess time.Time
	LastRefreshAttempt time.Time
	UserCount          int
}
