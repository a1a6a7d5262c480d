package usecase_test

import (
	"context"
	"errors"
	"sync"

	"github.com/oa-lab/zaiseki/pkg/domain/model"
	slacksvc "github.com/oa-lab/zaiseki/pkg/service/slack"
	"github.com/slack-go/slack"
)

type postMessageCall struct {
	ChannelID string
	Blocks    []slack.Block
	Text      string
}

type threadReplyCall struct {
	ChannelID string
	ThreadTS  string
	Blocks    []slack.Block
	Text      string
}

type ephemeralCall struct {
	ChannelID string
	UserID    string
	Blocks    []slack.Block
	Text      string
}

type deleteCall struct {
	ChannelID string
	Timestamp string
}

type updateCall struct {
	ChannelID string
	Timestamp string
	Blocks    []slack.Block
	Text      string
}

type setStatusCall struct {
	Token  string
	Status model.PresenceStatus
}

// mockSlackService records all outbound calls. Methods are safe for
// concurrent use since the status change flow runs its side effects in
// parallel.
type mockSlackService struct {
	mu sync.Mutex

	postMessages  []postMessageCall
	threadReplies []threadReplyCall
	ephemerals    []ephemeralCall
	deletions     []deleteCall
	updates       []updateCall
	openedViews   []slack.ModalViewRequest
	statuses      []setStatusCall

	channelMembers []string
	users          map[string]*slacksvc.User

	setStatusErr error
	ephemeralErr error
}

var _ slacksvc.Service = (*mockSlackService)(nil)

func newMockSlackService() *mockSlackService {
	return &mockSlackService{
		users: map[string]*slacksvc.User{},
	}
}

func (m *mockSlackService) PostMessage(_ context.Context, channelID string, blocks []slack.Block, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postMessages = append(m.postMessages, postMessageCall{channelID, blocks, text})
	return "1111.0001", nil
}

func (m *mockSlackService) PostThreadReply(_ context.Context, channelID, threadTS string, blocks []slack.Block, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threadReplies = append(m.threadReplies, threadReplyCall{channelID, threadTS, blocks, text})
	return "3333.0003", nil
}

func (m *mockSlackService) PostEphemeral(_ context.Context, channelID, userID string, blocks []slack.Block, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ephemeralErr != nil {
		return "", m.ephemeralErr
	}
	m.ephemerals = append(m.ephemerals, ephemeralCall{channelID, userID, blocks, text})
	return "2222.0002", nil
}

func (m *mockSlackService) UpdateMessage(_ context.Context, channelID, timestamp string, blocks []slack.Block, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, updateCall{channelID, timestamp, blocks, text})
	return nil
}

func (m *mockSlackService) DeleteMessage(_ context.Context, channelID, timestamp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletions = append(m.deletions, deleteCall{channelID, timestamp})
	return nil
}

func (m *mockSlackService) OpenView(_ context.Context, _ string, view slack.ModalViewRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openedViews = append(m.openedViews, view)
	return nil
}

func (m *mockSlackService) SetUserStatus(_ context.Context, token string, status model.PresenceStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setStatusErr != nil {
		return m.setStatusErr
	}
	m.statuses = append(m.statuses, setStatusCall{token, status})
	return nil
}

func (m *mockSlackService) GetUserInfo(_ context.Context, userID string) (*slacksvc.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[userID]; ok {
		u := *user
		return &u, nil
	}
	return nil, errors.New("user not found")
}

func (m *mockSlackService) ListChannelMembers(_ context.Context, _ string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.channelMembers...), nil
}

func (m *mockSlackService) ListUsers(_ context.Context) ([]*slacksvc.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]*slacksvc.User, 0, len(m.users))
	for _, u := range m.users {
		c := *u
		users = append(users, &c)
	}
	return users, nil
}
