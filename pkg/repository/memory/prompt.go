package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

type promptKey struct {
	userID    types.UserID
	channelID types.ChannelID
}

type promptRepository struct {
	mu      sync.RWMutex
	prompts map[promptKey]*model.PendingPrompt
}

func newPromptRepository() *promptRepository {
	return &promptRepository{
		prompts: make(map[promptKey]*model.PendingPrompt),
	}
}

// Put records a posted prompt (upsert by key)
func (r *promptRepository) Put(ctx context.Context, prompt *model.PendingPrompt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	promptCopy := *prompt
	r.prompts[promptKey{userID: prompt.UserID, channelID: prompt.ChannelID}] = &promptCopy
	return nil
}

// Get retrieves the pending prompt for a user in a channel
func (r *promptRepository) Get(ctx context.Context, userID types.UserID, channelID types.ChannelID) (*model.PendingPrompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prompt, ok := r.prompts[promptKey{userID: userID, channelID: channelID}]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "pending prompt not found",
			goerr.V("user_id", userID), goerr.V("channel_id", channelID))
	}

	promptCopy := *prompt
	return &promptCopy, nil
}

// Delete removes the pending prompt; absent prompts are not an error
func (r *promptRepository) Delete(ctx context.Context, userID types.UserID, channelID types.ChannelID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.prompts, promptKey{userID: userID, channelID: channelID})
	return nil
}
