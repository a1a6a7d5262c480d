package slack

import (
	"context"

	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Service provides the interface to the Slack API. All calls are single
// attempts; retry policy is left to the caller (there is none in the core).
type Service interface {
	// PostMessage posts a Block Kit message to a channel and returns the
	// message timestamp. The text parameter is used as a notification
	// fallback.
	PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error)

	// PostThreadReply posts a reply into the thread anchored at threadTS
	// and returns the reply's message timestamp. Blocks may be nil for
	// plain text replies.
	PostThreadReply(ctx context.Context, channelID, threadTS string, blocks []slack.Block, text string) (string, error)

	// PostEphemeral posts a message visible only to userID in the
	// channel and returns the message timestamp
	PostEphemeral(ctx context.Context, channelID, userID string, blocks []slack.Block, text string) (string, error)

	// UpdateMessage updates an existing message identified by channel
	// and timestamp
	UpdateMessage(ctx context.Context, channelID, timestamp string, blocks []slack.Block, text string) error

	// DeleteMessage deletes a message identified by channel and timestamp
	DeleteMessage(ctx context.Context, channelID, timestamp string) error

	// OpenView opens a modal in direct response to an interaction.
	// The trigger ID is single-use and expires within seconds; callers
	// must invoke this before any auxiliary work.
	OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error

	// SetUserStatus sets (or with a cleared status, clears) the custom
	// presence status of the user the token belongs to
	SetUserStatus(ctx context.Context, token string, status model.PresenceStatus) error

	// GetUserInfo retrieves user information for the given user ID
	GetUserInfo(ctx context.Context, userID string) (*User, error)

	// ListChannelMembers retrieves all member user IDs of a channel
	ListChannelMembers(ctx context.Context, channelID string) ([]string, error)

	// ListUsers retrieves all users in the workspace, including bots and
	// deleted accounts (the directory cache records those flags)
	ListUsers(ctx context.Context) ([]*User, error)
}

// User represents a Slack user
type User struct {
	ID       string
	Name     string
	RealName string
	IsBot    bool
	Deleted  bool
}
