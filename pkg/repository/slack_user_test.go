package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

func runSlackUserRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("SaveMany with empty list is a no-op", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if err := repo.SlackUser().SaveMany(ctx, []*model.SlackUser{}); err != nil {
			t.Fatalf("failed to save empty list: %v", err)
		}

		users, err := repo.SlackUser().GetAll(ctx)
		if err != nil {
			t.Fatalf("failed to get all users: %v", err)
		}
		if len(users) != 0 {
			t.Errorf("expected 0 users, got %d", len(users))
		}
	})

	t.Run("SaveMany and GetByIDs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := time.Now()

		users := []*model.SlackUser{
			{ID: "U0001", Name: "taro", RealName: "Taro Yamada", UpdatedAt: now},
			{ID: "U0002", Name: "bot", RealName: "OA Bot", IsBot: true, UpdatedAt: now},
		}
		if err := repo.SlackUser().SaveMany(ctx, users); err != nil {
			t.Fatalf("failed to save users: %v", err)
		}

		got, err := repo.SlackUser().GetByIDs(ctx, []types.UserID{"U0001", "U0002", "U_MISSING"})
		if err != nil {
			t.Fatalf("failed to get by IDs: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 users, got %d", len(got))
		}
		if got["U0001"].RealName != "Taro Yamada" {
			t.Errorf("real name mismatch: %q", got["U0001"].RealName)
		}
		if !got["U0002"].IsBot {
			t.Error("expected bot flag to survive storage")
		}
		if _, ok := got["U_MISSING"]; ok {
			t.Error("missing users must be omitted from the map")
		}
	})

	t.Run("DeleteAll then SaveMany replaces the directory", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := time.Now()

		if err := repo.SlackUser().SaveMany(ctx, []*model.SlackUser{
			{ID: "U0001", Name: "old", UpdatedAt: now},
		}); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
		if err := repo.SlackUser().DeleteAll(ctx); err != nil {
			t.Fatalf("failed to delete all: %v", err)
		}
		if err := repo.SlackUser().SaveMany(ctx, []*model.SlackUser{
			{ID: "U0003", Name: "new", UpdatedAt: now},
		}); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		users, err := repo.SlackUser().GetAll(ctx)
		if err != nil {
			t.Fatalf("failed to get all: %v", err)
		}
		if len(users) != 1 || users[0].ID != "U0003" {
			t.Errorf("expected replaced directory, got %+v", users)
		}
	})

	t.Run("metadata round-trip with zero default", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		meta, err := repo.SlackUser().GetMetadata(ctx)
		if err != nil {
			t.Fatalf("failed to get default metadata: %v", err)
		}
		if meta.UserCount != 0 {
			t.Errorf("expected zero metadata, got %+v", meta)
		}

		saved := &model.SlackUserMetadata{
			LastRefreshSuccess: time.Now().UTC().Truncate(time.Second),
			LastRefreshAttempt: time.Now().UTC().Truncate(time.Second),
			UserCount:          42,
		}
		if err := repo.SlackUser().SaveMetadata(ctx, saved); err != nil {
			t.Fatalf("failed to save metadata: %v", err)
		}

		got, err := repo.SlackUser().GetMetadata(ctx)
		if err != nil {
			t.Fatalf("failed to get metadata: %v", err)
		}
		if got.UserCount != 42 {
			t.Errorf("expected user count 42, got %d", got.UserCount)
		}
	})
}
