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

type credentialRepository struct {
	db *sql.DB
}

// Get retrieves a credential by user ID
func (r *credentialRepository) Get(ctx context.Context, userID types.UserID) (*model.Credential, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, token, updated_at FROM credentials WHERE user_id = ?`,
		string(userID),
	)

	var cred model.Credential
	var id string
	if err := row.Scan(&id, &cred.Token, &cred.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "credential not found", goerr.V("user_id", userID))
		}
		return nil, goerr.Wrap(err, "failed to get credential", goerr.V("user_id", userID))
	}
	cred.UserID = types.UserID(id)

	return &cred, nil
}

// Put stores a credential (upsert by user ID)
func (r *credentialRepository) Put(ctx context.Context, cred *model.Credential) error {
	if err := cred.Validate(); err != nil {
		return goerr.Wrap(err, "invalid credential")
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO credentials (user_id, token, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`,
		string(cred.UserID), cred.Token, cred.UpdatedAt,
	)
	if err != nil {
		return goerr.Wrap(err, "failed to put credential", goerr.V("user_id", cred.UserID))
	}

	return nil
}
