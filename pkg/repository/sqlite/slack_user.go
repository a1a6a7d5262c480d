package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

type slackUserRepository struct {
	db *sql.DB
}

// GetAll retrieves all cached directory entries
func (r *slackUserRepository) GetAll(ctx context.Context) ([]*model.SlackUser, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, real_name, is_bot, deleted, updated_at FROM slack_users`,
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list slack users")
	}
	defer rows.Close() //nolint:errcheck

	var users []*model.SlackUser
	for rows.Next() {
		user, err := scanSlackUser(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan slack user")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate slack users")
	}

	return users, nil
}

// GetByIDs retrieves multiple entries by IDs; missing IDs are omitted
func (r *slackUserRepository) GetByIDs(ctx context.Context, ids []types.UserID) (map[types.UserID]*model.SlackUser, error) {
	result := make(map[types.UserID]*model.SlackUser, len(ids))

	for _, id := range ids {
		row := r.db.QueryRowContext(ctx,
			`SELECT id, name, real_name, is_bot, deleted, updated_at FROM slack_users WHERE id = ?`,
			string(id),
		)
		user, err := scanSlackUser(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, goerr.Wrap(err, "failed to get slack user", goerr.V("id", id))
		}
		result[id] = user
	}

	return result, nil
}

// SaveMany saves multiple entries in one transaction
func (r *slackUserRepository) SaveMany(ctx context.Context, users []*model.SlackUser) error {
	if len(users) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, user := range users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO slack_users (id, name, real_name, is_bot, deleted, updated_at) VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET
				name = excluded.name, real_name = excluded.real_name,
				is_bot = excluded.is_bot, deleted = excluded.deleted, updated_at = excluded.updated_at`,
			string(user.ID), user.Name, user.RealName, user.IsBot, user.Deleted, user.UpdatedAt,
		); err != nil {
			return goerr.Wrap(err, "failed to save slack user", goerr.V("id", user.ID))
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit slack users")
	}

	return nil
}

// DeleteAll deletes all cached entries
func (r *slackUserRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM slack_users`); err != nil {
		return goerr.Wrap(err, "failed to delete slack users")
	}
	return nil
}

// GetMetadata retrieves refresh bookkeeping; zero value when never saved
func (r *slackUserRepository) GetMetadata(ctx context.Context) (*model.SlackUserMetadata, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT last_refresh_success, last_refresh_attempt, user_count FROM slack_user_metadata WHERE id = 1`,
	)

	var meta model.SlackUserMetadata
	if err := row.Scan(&meta.LastRefreshSuccess, &meta.LastRefreshAttempt, &meta.UserCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &model.SlackUserMetadata{}, nil
		}
		return nil, goerr.Wrap(err, "failed to get slack user metadata")
	}

	return &meta, nil
}

// SaveMetadata saves refresh bookkeeping
func (r *slackUserRepository) SaveMetadata(ctx context.Context, metadata *model.SlackUserMetadata) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO slack_user_metadata (id, last_refresh_success, last_refresh_attempt, user_count) VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			last_refresh_success = excluded.last_refresh_success,
			last_refresh_attempt = excluded.last_refresh_attempt,
			user_count = excluded.user_count`,
		metadata.LastRefreshSuccess, metadata.LastRefreshAttempt, metadata.UserCount,
	)
	if err != nil {
		return goerr.Wrap(err, "failed to save slack user metadata")
	}

	return nil
}

func scanSlackUser(row rowScanner) (*model.SlackUser, error) {
	var user model.SlackUser
	var id string
	if err := row.Scan(&id, &user.Name, &user.RealName, &user.IsBot, &user.Deleted, &user.UpdatedAt); err != nil {
		return nil, err
	}
	user.ID = types.UserID(id)
	return &user, nil
}
