package interfaces

import (
	"context"

	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

// CredentialRepository provides storage for per-user Slack tokens.
// Records are created and overwritten by the token submission flow, never
// deleted by the core.
type CredentialRepository interface {
	// Get retrieves a credential by user ID. Returns ErrNotFound (wrapped)
	// when the user has never registered or declined.
	Get(ctx context.Context, userID types.UserID) (*model.Credential, error)

	// Put stores a credential (upsert by user ID)
	Put(ctx context.Context, cred *model.Credential) error
}
