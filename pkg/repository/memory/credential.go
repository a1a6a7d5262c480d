package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

type credentialRepository struct {
	mu    sync.RWMutex
	creds map[types.UserID]*model.Credential
}

func newCredentialRepository() *credentialRepository {
	return &credentialRepository{
		creds: make(map[types.UserID]*model.Credential),
	}
}

// Get retrieves a credential by user ID
func (r *credentialRepository) Get(ctx context.Context, userID types.UserID) (*model.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cred, ok := r.creds[userID]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "credential not found", goerr.V("user_id", userID))
	}

	// Return a copy to prevent external modifications
	credCopy := *cred
	return &credCopy, nil
}

// Put stores a credential (upsert by user ID)
func (r *credentialRepository) Put(ctx context.Context, cred *model.Credential) error {
	if err := cred.Validate(); err != nil {
		return goerr.Wrap(err, "invalid credential")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	credCopy := *cred
	r.creds[cred.UserID] = &credCopy
	return nil
}
