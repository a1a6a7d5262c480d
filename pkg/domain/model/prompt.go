package model

import (
	"time"

	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

// PendingPrompt tracks an ephemeral authorization prompt that was posted
// for a user in a channel, so a later token submission or decline can
// dismiss it. Keyed by (UserID, ChannelID).
type PendingPrompt struct {
	UserID    types.UserID
	ChannelID types.ChannelID
	MessageTS types.MessageTS
	CreatedAt time.Time
}
