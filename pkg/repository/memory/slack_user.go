package memory

import (
	"context"
	"sync"

	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

type slackUserRepository struct {
	mu       sync.RWMutex
	users    map[types.UserID]*model.SlackUser
	metadata *model.SlackUserMetadata
}

func newSlackUserRepository() *slackUserRepository {
	return &slackUserRepository{
		users:    make(map[types.UserID]*model.SlackUser),
		metadata: &model.SlackUserMetadata{},
	}
}

// GetAll retrieves all cached directory entries
func (r *slackUserRepository) GetAll(ctx context.Context) ([]*model.SlackUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.SlackUser, 0, len(r.users))
	for _, user := range r.users {
		userCopy := *user
		users = append(users, &userCopy)
	}

	return users, nil
}

// GetByIDs retrieves multiple entries by IDs; missing IDs are omitted
func (r *slackUserRepository) GetByIDs(ctx context.Context, ids []types.UserID) (map[types.UserID]*model.SlackUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[types.UserID]*model.SlackUser, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			userCopy := *user
			result[id] = &userCopy
		}
	}

	return result, nil
}

// SaveMany saves multiple entries (upsert operation)
func (r *slackUserRepository) SaveMany(ctx context.Context, users []*model.SlackUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range users {
		userCopy := *user
		r.users[user.ID] = &userCopy
	}

	return nil
}

// DeleteAll deletes all cached entries
func (r *slackUserRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = make(map[types.UserID]*model.SlackUser)
	return nil
}

// GetMetadata retrieves refresh bookkeeping
func (r *slackUserRepository) GetMetadata(ctx context.Context) (*model.SlackUserMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metadataCopy := *r.metadata
	return &metadataCopy, nil
}

// SaveMetadata saves refresh bookkeeping
func (r *slackUserRepository) SaveMetadata(ctx context.Context, metadata *model.SlackUserMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	metadataCopy := *metadata
	r.metadata = &metadataCopy
	return nil
}
