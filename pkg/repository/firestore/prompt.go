package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const promptsCollection = "pending_prompts"

type promptRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

// promptDoc is the Firestore persistence model
type promptDoc struct {
	UserID    string    `firestore:"user_id"`
	ChannelID string    `firestore:"channel_id"`
	MessageTS string    `firestore:"message_ts"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (r *promptRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + promptsCollection)
	}
	return r.client.Collection(promptsCollection)
}

func promptDocID(userID types.UserID, channelID types.ChannelID) string {
	return fmt.Sprintf("%s_%s", userID, channelID)
}

// Put records a posted prompt (upsert by key)
func (r *promptRepository) Put(ctx context.Context, prompt *model.PendingPrompt) error {
	_, err := r.collection().Doc(promptDocID(prompt.UserID, prompt.ChannelID)).Set(ctx, &promptDoc{
		UserID:    string(prompt.UserID),
		ChannelID: string(prompt.ChannelID),
		MessageTS: string(prompt.MessageTS),
		CreatedAt: prompt.CreatedAt,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to put pending prompt",
			goerr.V("user_id", prompt.UserID), goerr.V("channel_id", prompt.ChannelID))
	}

	return nil
}

// Get retrieves the pending prompt for a user in a channel
func (r *promptRepository) Get(ctx context.Context, userID types.UserID, channelID types.ChannelID) (*model.PendingPrompt, error) {
	doc, err := r.collection().Doc(promptDocID(userID, channelID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "pending prompt not found",
				goerr.V("user_id", userID), goerr.V("channel_id", channelID))
		}
		return nil, goerr.Wrap(err, "failed to get pending prompt")
	}

	var pd promptDoc
	if err := doc.DataTo(&pd); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal pending prompt")
	}

	return &model.PendingPrompt{
		UserID:    types.UserID(pd.UserID),
		ChannelID: types.ChannelID(pd.ChannelID),
		MessageTS: types.MessageTS(pd.MessageTS),
		CreatedAt: pd.CreatedAt,
	}, nil
}

// Delete removes the pending prompt; absent prompts are not an error
func (r *promptRepository) Delete(ctx context.Context, userID types.UserID, channelID types.ChannelID) error {
	_, err := r.collection().Doc(promptDocID(userID, channelID)).Delete(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return goerr.Wrap(err, "failed to delete pending prompt",
			goerr.V("user_id", userID), goerr.V("channel_id", channelID))
	}

	return nil
}
