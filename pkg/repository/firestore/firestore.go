package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
)

type Firestore struct {
	client     *firestore.Client
	credential *credentialRepository
	attendance *attendanceRepository
	prompt     *promptRepository
	slackUser  *slackUserRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, used to isolate test data
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.credential.collectionPrefix = prefix
		f.attendance.collectionPrefix = prefix
		f.prompt.collectionPrefix = prefix
		f.slackUser.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:     client,
		credential: &credentialRepository{client: client},
		attendance: &attendanceRepository{client: client},
		prompt:     &promptRepository{client: client},
		slackUser:  &slackUserRepository{client: client},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Credential() interfaces.CredentialRepository {
	return f.credential
}

func (f *Firestore) Attendance() interfaces.AttendanceRepository {
	return f.attendance
}

func (f *Firestore) Prompt() interfaces.PromptRepository {
	return f.prompt
}

func (f *Firestore) SlackUser() interfaces.SlackUserRepository {
	return f.slackUser
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
