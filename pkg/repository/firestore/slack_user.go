package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	slackUsersCollection    = "slack_users"
	slackMetadataCollection = "slack_metadata"
	refreshStatusDocument   = "refresh_status"

	// Maximum document references per GetAll request
	firestoreGetAllLimit = 30
)

type slackUserRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

// slackUserDoc is the Firestore persistence model
type slackUserDoc struct {
	ID        string    `firestore:"id"`
	Name      string    `firestore:"name"`
	RealName  string    `firestore:"real_name"`
	IsBot     bool      `firestore:"is_bot"`
	Deleted   bool      `firestore:"deleted"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// slackUserMetadataDoc is the Firestore persistence model for metadata
type slackUserMetadataDoc struct {
	LastRefreshSuccess time.Time `firestore:"last_refresh_success"`
	LastRefreshAttempt time.Time `firestore:"last_refresh_attempt"`
	UserCount          int       `firestore:"user_count"`
}

func (r *slackUserRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + slackUsersCollection)
	}
	return r.client.Collection(slackUsersCollection)
}

func (r *slackUserRepository) metadataCollection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + slackMetadataCollection)
	}
	return r.client.Collection(slackMetadataCollection)
}

func toSlackUserDoc(user *model.SlackUser) *slackUserDoc {
	return &slackUserDoc{
		ID:        string(user.ID),
		Name:      user.Name,
		RealName:  user.RealName,
		IsBot:     user.IsBot,
		Deleted:   user.Deleted,
		UpdatedAt: user.UpdatedAt,
	}
}

func fromSlackUserDoc(doc *slackUserDoc) *model.SlackUser {
	return &model.SlackUser{
		ID:        types.UserID(doc.ID),
		Name:      doc.Name,
		RealName:  doc.RealName,
		IsBot:     doc.IsBot,
		Deleted:   doc.Deleted,
		UpdatedAt: doc.UpdatedAt,
	}
}

// GetAll retrieves all cached directory entries
func (r *slackUserRepository) GetAll(ctx context.Context) ([]*model.SlackUser, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var users []*model.SlackUser
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate slack users")
		}

		var ud slackUserDoc
		if err := doc.DataTo(&ud); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal slack user", goerr.V("docID", doc.Ref.ID))
		}

		users = append(users, fromSlackUserDoc(&ud))
	}

	return users, nil
}

// GetByIDs retrieves multiple entries by IDs, split into GetAll batches
func (r *slackUserRepository) GetByIDs(ctx context.Context, ids []types.UserID) (map[types.UserID]*model.SlackUser, error) {
	if len(ids) == 0 {
		return make(map[types.UserID]*model.SlackUser), nil
	}

	result := make(map[types.UserID]*model.SlackUser, len(ids))

	for i := 0; i < len(ids); i += firestoreGetAllLimit {
		end := min(i+firestoreGetAllLimit, len(ids))
		batch := ids[i:end]

		refs := make([]*firestore.DocumentRef, len(batch))
		for j, id := range batch {
			refs[j] = r.collection().Doc(string(id))
		}

		docs, err := r.client.GetAll(ctx, refs)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to batch get slack users", goerr.V("count", len(batch)))
		}

		for idx, doc := range docs {
			if !doc.Exists() {
				// Missing users are not included in the result map
				continue
			}

			var ud slackUserDoc
			if err := doc.DataTo(&ud); err != nil {
				return nil, goerr.Wrap(err, "failed to unmarshal slack user", goerr.V("id", batch[idx]))
			}

			result[batch[idx]] = fromSlackUserDoc(&ud)
		}
	}

	return result, nil
}

// SaveMany saves multiple entries via BulkWriter (handles batching limits)
func (r *slackUserRepository) SaveMany(ctx context.Context, users []*model.SlackUser) error {
	if len(users) == 0 {
		return nil
	}

	bulkWriter := r.client.BulkWriter(ctx)
	defer bulkWriter.End()

	for _, user := range users {
		docRef := r.collection().Doc(string(user.ID))
		if _, err := bulkWriter.Set(docRef, toSlackUserDoc(user)); err != nil {
			return goerr.Wrap(err, "failed to add Set operation to bulk writer", goerr.V("user_id", user.ID))
		}
	}

	bulkWriter.Flush()

	return nil
}

// DeleteAll deletes all cached entries via BulkWriter
func (r *slackUserRepository) DeleteAll(ctx context.Context) error {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var refs []*firestore.DocumentRef
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate slack users for deletion")
		}
		refs = append(refs, doc.Ref)
	}

	if len(refs) == 0 {
		return nil
	}

	bulkWriter := r.client.BulkWriter(ctx)
	defer bulkWriter.End()

	for _, ref := range refs {
		if _, err := bulkWriter.Delete(ref); err != nil {
			return goerr.Wrap(err, "failed to add Delete operation to bulk writer")
		}
	}

	bulkWriter.Flush()

	return nil
}

// GetMetadata retrieves refresh bookkeeping; zero value when never saved
func (r *slackUserRepository) GetMetadata(ctx context.Context) (*model.SlackUserMetadata, error) {
	doc, err := r.metadataCollection().Doc(refreshStatusDocument).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &model.SlackUserMetadata{}, nil
		}
		return nil, goerr.Wrap(err, "failed to get slack user metadata")
	}

	var md slackUserMetadataDoc
	if err := doc.DataTo(&md); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal slack user metadata")
	}

	return &model.SlackUserMetadata{
		LastRefreshSuccess: md.LastRefreshSuccess,
		LastRefreshAttempt: md.LastRefreshAttempt,
		UserCount:          md.UserCount,
	}, nil
}

// SaveMetadata saves refresh bookkeeping
func (r *slackUserRepository) SaveMetadata(ctx context.Context, metadata *model.SlackUserMetadata) error {
	_, err := r.metadataCollection().Doc(refreshStatusDocument).Set(ctx, &slackUserMetadataDoc{
		LastRefreshSuccess: metadata.LastRefreshSuccess,
		LastRefreshAttempt: metadata.LastRefreshAttempt,
		UserCount:          metadata.UserCount,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to save slack user metadata")
	}
	return nil
}
