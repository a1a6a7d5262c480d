package slack

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/slack-go/slack"
)

// DefaultClientTTL bounds the lifetime of cached per-token API clients
const DefaultClientTTL = 10 * time.Minute

// clientEntry holds a cached per-token API client with expiration
type clientEntry struct {
	api       *slack.Client
	expiresAt time.Time
}

// client implements Service. Messaging calls use the bot token; status
// mutation uses the per-user token resolved by the caller, via a bounded
// client cache instead of constructing a new SDK client per request.
type client struct {
	api       *slack.Client
	clientTTL time.Duration

	mu    sync.Mutex
	cache map[string]clientEntry
}

// Option is a functional option for client configuration
type Option func(*client)

// WithClientTTL sets the lifetime of cached per-token clients
func WithClientTTL(ttl time.Duration) Option {
	return func(c *client) {
		c.clientTTL = ttl
	}
}

// New creates a new Slack service with the provided bot token
func New(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	c := &client{
		api:       slack.New(token),
		clientTTL: DefaultClientTTL,
		cache:     make(map[string]clientEntry),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// userClient returns a cached API client for the given user token
func (c *client) userClient(token string) *slack.Client {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.cache[token]; ok && entry.expiresAt.After(now) {
		return entry.api
	}

	api := slack.New(token)
	c.cache[token] = clientEntry{api: api, expiresAt: now.Add(c.clientTTL)}

	// Drop expired entries while we hold the lock
	for key, entry := range c.cache {
		if !entry.expiresAt.After(now) {
			delete(c.cache, key)
		}
	}

	return api
}

func (c *client) PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error) {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if len(blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(blocks...))
	}

	_, ts, err := c.api.PostMessageContext(ctx, channelID, opts...)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post message", goerr.V("channel_id", channelID))
	}

	return ts, nil
}

func (c *client) PostThreadReply(ctx context.Context, channelID, threadTS string, blocks []slack.Block, text string) (string, error) {
	opts := []slack.MsgOption{
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(threadTS),
	}
	if len(blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(blocks...))
	}

	_, ts, err := c.api.PostMessageContext(ctx, channelID, opts...)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post thread reply",
			goerr.V("channel_id", channelID), goerr.V("thread_ts", threadTS))
	}

	return ts, nil
}

func (c *client) PostEphemeral(ctx context.Context, channelID, userID string, blocks []slack.Block, text string) (string, error) {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if len(blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(blocks...))
	}

	ts, err := c.api.PostEphemeralContext(ctx, channelID, userID, opts...)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post ephemeral message",
			goerr.V("channel_id", channelID), goerr.V("user_id", userID))
	}

	return ts, nil
}

func (c *client) UpdateMessage(ctx context.Context, channelID, timestamp string, blocks []slack.Block, text string) error {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if len(blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(blocks...))
	}

	_, _, _, err := c.api.UpdateMessageContext(ctx, channelID, timestamp, opts...)
	if err != nil {
		return goerr.Wrap(err, "failed to update message",
			goerr.V("channel_id", channelID), goerr.V("timestamp", timestamp))
	}

	return nil
}

func (c *client) DeleteMessage(ctx context.Context, channelID, timestamp string) error {
	_, _, err := c.api.DeleteMessageContext(ctx, channelID, timestamp)
	if err != nil {
		return goerr.Wrap(err, "failed to delete message",
			goerr.V("channel_id", channelID), goerr.V("timestamp", timestamp))
	}

	return nil
}

func (c *client) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	if _, err := c.api.OpenViewContext(ctx, triggerID, view); err != nil {
		return goerr.Wrap(err, "failed to open view")
	}

	return nil
}

func (c *client) SetUserStatus(ctx context.Context, token string, status model.PresenceStatus) error {
	api := c.userClient(token)

	// An all-empty status is Slack's documented way to clear the profile
	if err := api.SetUserCustomStatusContext(ctx, status.Text, status.Emoji, status.Expiration); err != nil {
		return goerr.Wrap(err, "failed to set user status",
			goerr.V("status_text", status.Text), goerr.V("status_emoji", status.Emoji))
	}

	return nil
}

func (c *client) GetUserInfo(ctx context.Context, userID string) (*User, error) {
	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user info", goerr.V("user_id", userID))
	}

	return &User{
		ID:       user.ID,
		Name:     user.Name,
		RealName: user.RealName,
		IsBot:    user.IsBot,
		Deleted:  user.Deleted,
	}, nil
}

func (c *client) ListChannelMembers(ctx context.Context, channelID string) ([]string, error) {
	var members []string
	var cursor string

	for {
		batch, nextCursor, err := c.api.GetUsersInConversationContext(ctx, &slack.GetUsersInConversationParameters{
			ChannelID: channelID,
			Limit:     200,
			Cursor:    cursor,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list channel members", goerr.V("channel_id", channelID))
		}

		members = append(members, batch...)

		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	return members, nil
}

func (c *client) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := c.api.GetUsersContext(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list users")
	}

	result := make([]*User, 0, len(users))
	for _, u := range users {
		result = append(result, &User{
			ID:       u.ID,
			Name:     u.Name,
			RealName: u.RealName,
			IsBot:    u.IsBot,
			Deleted:  u.Deleted,
		})
	}

	return result, nil
}
