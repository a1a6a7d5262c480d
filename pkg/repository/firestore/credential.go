package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const credentialsCollection = "credentials"

type credentialRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

// credentialDoc is the Firestore persistence model
type credentialDoc struct {
	UserID    string    `firestore:"user_id"`
	Token     string    `firestore:"token"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (r *credentialRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + credentialsCollection)
	}
	return r.client.Collection(credentialsCollection)
}

// Get retrieves a credential by user ID
func (r *credentialRepository) Get(ctx context.Context, userID types.UserID) (*model.Credential, error) {
	doc, err := r.collection().Doc(string(userID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "credential not found", goerr.V("user_id", userID))
		}
		return nil, goerr.Wrap(err, "failed to get credential", goerr.V("user_id", userID))
	}

	var cd credentialDoc
	if err := doc.DataTo(&cd); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal credential", goerr.V("user_id", userID))
	}

	return &model.Credential{
		UserID:    types.UserID(cd.UserID),
		Token:     cd.Token,
		UpdatedAt: cd.UpdatedAt,
	}, nil
}

// Put stores a credential (upsert by user ID)
func (r *credentialRepository) Put(ctx context.Context, cred *model.Credential) error {
	if err := cred.Validate(); err != nil {
		return goerr.Wrap(err, "invalid credential")
	}

	_, err := r.collection().Doc(string(cred.UserID)).Set(ctx, &credentialDoc{
		UserID:    string(cred.UserID),
		Token:     cred.Token,
		UpdatedAt: cred.UpdatedAt,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to put credential", goerr.V("user_id", cred.UserID))
	}

	return nil
}
