package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/repository/memory"
	slacksvc "github.com/oa-lab/zaiseki/pkg/service/slack"
	"github.com/oa-lab/zaiseki/pkg/service/worker"
	goslack "github.com/slack-go/slack"
)

// mockSlackService implements slacksvc.Service for worker tests. Only
// ListUsers matters here; everything else is a no-op.
type mockSlackService struct {
	mu             sync.RWMutex
	users          []*slacksvc.User
	listUsersError error
}

func newMockSlackService() *mockSlackService {
	return &mockSlackService{}
}

func (m *mockSlackService) setUsers(users []*slacksvc.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = users
}

func (m *mockSlackService) setListUsersError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listUsersError = err
}

func (m *mockSlackService) ListUsers(_ context.Context) ([]*slacksvc.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.listUsersError != nil {
		return nil, m.listUsersError
	}

	result := make([]*slacksvc.User, len(m.users))
	for i, u := range m.users {
		userCopy := *u
		result[i] = &userCopy
	}
	return result, nil
}

func (m *mockSlackService) PostMessage(_ context.Context, _ string, _ []goslack.Block, _ string) (string, error) {
	return "1234567890.123456", nil
}

func (m *mockSlackService) PostThreadReply(_ context.Context, _, _ string, _ []goslack.Block, _ string) (string, error) {
	return "1234567890.123457", nil
}

func (m *mockSlackService) PostEphemeral(_ context.Context, _, _ string, _ []goslack.Block, _ string) (string, error) {
	return "", nil
}

func (m *mockSlackService) UpdateMessage(_ context.Context, _, _ string, _ []goslack.Block, _ string) error {
	return nil
}

func (m *mockSlackService) DeleteMessage(_ context.Context, _, _ string) error {
	return nil
}

func (m *mockSlackService) OpenView(_ context.Context, _ string, _ goslack.ModalViewRequest) error {
	return nil
}

func (m *mockSlackService) SetUserStatus(_ context.Context, _ string, _ model.PresenceStatus) error {
	return nil
}

func (m *mockSlackService) GetUserInfo(_ context.Context, _ string) (*slacksvc.User, error) {
	return nil, nil
}

func (m *mockSlackService) ListChannelMembers(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func TestDirectoryRefreshWorker_InitialSync(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	mockSvc := newMockSlackService()

	mockSvc.setUsers([]*slacksvc.User{
		{ID: "U001", Name: "alice", RealName: "Alice Smith"},
		{ID: "U002", Name: "bob", RealName: "Bob Johnson", IsBot: false},
		{ID: "UBOT", Name: "zaiseki", IsBot: true},
	})

	w := worker.NewDirectoryRefreshWorker(repo, mockSvc, 10*time.Minute)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}
	defer w.Stop()

	// Initial sync runs in the background
	time.Sleep(50 * time.Millisecond)

	users, err := repo.SlackUser().GetAll(ctx)
	if err != nil {
		t.Fatalf("failed to get all users: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 cached users, got %d", len(users))
	}

	metadata, err := repo.SlackUser().GetMetadata(ctx)
	if err != nil {
		t.Fatalf("failed to get metadata: %v", err)
	}
	if metadata.UserCount != 3 {
		t.Errorf("expected UserCount=3, got %d", metadata.UserCount)
	}
	if metadata.LastRefreshSuccess.IsZero() {
		t.Error("expected LastRefreshSuccess to be set")
	}
}

func TestDirectoryRefreshWorker_ReplaceStrategy(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	mockSvc := newMockSlackService()

	mockSvc.setUsers([]*slacksvc.User{
		{ID: "U001", Name: "alice"},
		{ID: "U002", Name: "bob"},
	})

	w := worker.NewDirectoryRefreshWorker(repo, mockSvc, time.Hour)
	if err := w.Refresh(ctx); err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}

	// U002 leaves the workspace
	mockSvc.setUsers([]*slacksvc.User{
		{ID: "U001", Name: "alice"},
	})
	if err := w.Refresh(ctx); err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}

	users, err := repo.SlackUser().GetAll(ctx)
	if err != nil {
		t.Fatalf("failed to get all users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 cached user after replace, got %d", len(users))
	}
	if users[0].ID != "U001" {
		t.Errorf("expected U001 to survive, got %s", users[0].ID)
	}
}

func TestDirectoryRefreshWorker_APIFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	mockSvc := newMockSlackService()

	mockSvc.setUsers([]*slacksvc.User{
		{ID: "U001", Name: "alice"},
	})

	w := worker.NewDirectoryRefreshWorker(repo, mockSvc, time.Hour)
	if err := w.Refresh(ctx); err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}

	before, err := repo.SlackUser().GetMetadata(ctx)
	if err != nil {
		t.Fatalf("failed to get metadata: %v", err)
	}

	mockSvc.setListUsersError(errors.New("slack is down"))
	if err := w.Refresh(ctx); err == nil {
		t.Fatal("expected refresh to fail")
	}

	// The stale cache survives
	users, err := repo.SlackUser().GetAll(ctx)
	if err != nil {
		t.Fatalf("failed to get all users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected stale cache to survive, got %d users", len(users))
	}

	after, err := repo.SlackUser().GetMetadata(ctx)
	if err != nil {
		t.Fatalf("failed to get metadata: %v", err)
	}
	if !after.LastRefreshSuccess.Equal(before.LastRefreshSuccess) {
		t.Error("expected LastRefreshSuccess to be unchanged after failure")
	}
	if !after.LastRefreshAttempt.After(before.LastRefreshAttempt) {
		t.Error("expected LastRefreshAttempt to advance")
	}
}

func TestDirectoryRefreshWorker_StopTerminates(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	mockSvc := newMockSlackService()

	w := worker.NewDirectoryRefreshWorker(repo, mockSvc, 10*time.Millisecond)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop in time")
	}
}
