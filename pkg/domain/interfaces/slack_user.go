package interfaces

import (
	"context"

	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

// SlackUserRepository caches the workspace user directory.
//
// N+1 Prevention Policy:
// - No individual Save(user) method - always use SaveMany for batch writes
// - Prefer GetByIDs for batch retrieval over per-member lookups
// - The refresh worker uses bulk operations: DeleteAll -> SaveMany
type SlackUserRepository interface {
	// GetAll retrieves all cached directory entries
	GetAll(ctx context.Context) ([]*model.SlackUser, error)

	// GetByIDs retrieves multiple entries by IDs. Returns a map of
	// ID -> SlackUser; missing users are not included in the map.
	GetByIDs(ctx context.Context, ids []types.UserID) (map[types.UserID]*model.SlackUser, error)

	// SaveMany saves multiple entries (upsert operation)
	SaveMany(ctx context.Context, users []*model.SlackUser) error

	// DeleteAll deletes all cached entries
	DeleteAll(ctx context.Context) error

	// GetMetadata retrieves refresh bookkeeping
	GetMetadata(ctx context.Context) (*model.SlackUserMetadata, error)

	// SaveMetadata saves refresh bookkeeping
	SaveMetadata(ctx context.Context, metadata *model.SlackUserMetadata) error
}
