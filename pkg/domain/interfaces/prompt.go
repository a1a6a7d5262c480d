package interfaces

import (
	"context"

	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

// PromptRepository tracks pending ephemeral authorization prompts keyed by
// (user, channel) so they can be dismissed after registration or decline
type PromptRepository interface {
	// Put records a posted prompt (upsert by key)
	Put(ctx context.Context, prompt *model.PendingPrompt) error

	// Get retrieves the pending prompt for a user in a channel.
	// Returns ErrNotFound (wrapped) when none is pending.
	Get(ctx context.Context, userID types.UserID, channelID types.ChannelID) (*model.PendingPrompt, error)

	// Delete removes the pending prompt. Deleting an absent prompt is
	// not an error.
	Delete(ctx context.Context, userID types.UserID, channelID types.ChannelID) error
}
