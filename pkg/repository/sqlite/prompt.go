package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

type promptRepository struct {
	db *sql.DB
}

// Put records a posted prompt (upsert by key)
func (r *promptRepository) Put(ctx context.Context, prompt *model.PendingPrompt) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pending_prompts (user_id, channel_id, message_ts, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, channel_id) DO UPDATE SET message_ts = excluded.message_ts, created_at = excluded.created_at`,
		string(prompt.UserID), string(prompt.ChannelID), string(prompt.MessageTS), prompt.CreatedAt,
	)
	if err != nil {
		return goerr.Wrap(err, "failed to put pending prompt",
			goerr.V("user_id", prompt.UserID), goerr.V("channel_id", prompt.ChannelID))
	}

	return nil
}

// Get retrieves the pending prompt for a user in a channel
func (r *promptRepository) Get(ctx context.Context, userID types.UserID, channelID types.ChannelID) (*model.PendingPrompt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, channel_id, message_ts, created_at FROM pending_prompts
		 WHERE user_id = ? AND channel_id = ?`,
		string(userID), string(channelID),
	)

	var prompt model.PendingPrompt
	var uid, cid, ts string
	if err := row.Scan(&uid, &cid, &ts, &prompt.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "pending prompt not found",
				goerr.V("user_id", userID), goerr.V("channel_id", channelID))
		}
		return nil, goerr.Wrap(err, "failed to get pending prompt")
	}
	prompt.UserID = types.UserID(uid)
	prompt.ChannelID = types.ChannelID(cid)
	prompt.MessageTS = types.MessageTS(ts)

	return &prompt, nil
}

// Delete removes the pending prompt; absent prompts are not an error
func (r *promptRepository) Delete(ctx context.Context, userID types.UserID, channelID types.ChannelID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM pending_prompts WHERE user_id = ? AND channel_id = ?`,
		string(userID), string(channelID),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to delete pending prompt",
			goerr.V("user_id", userID), goerr.V("channel_id", channelID))
	}

	return nil
}
