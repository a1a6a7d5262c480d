package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

func runPromptRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put and Get round-trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		prompt := &model.PendingPrompt{
			UserID:    "U0001",
			ChannelID: "C_A",
			MessageTS: "1733367600.000100",
			CreatedAt: time.Now(),
		}
		if err := repo.Prompt().Put(ctx, prompt); err != nil {
			t.Fatalf("put failed: %v", err)
		}

		got, err := repo.Prompt().Get(ctx, "U0001", "C_A")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.MessageTS != "1733367600.000100" {
			t.Errorf("message ts mismatch: got %q", got.MessageTS)
		}
	})

	t.Run("Put replaces existing prompt for same key", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, ts := range []types.MessageTS{"111.000", "222.000"} {
			if err := repo.Prompt().Put(ctx, &model.PendingPrompt{
				UserID: "U0001", ChannelID: "C_A", MessageTS: ts, CreatedAt: time.Now(),
			}); err != nil {
				t.Fatalf("put failed: %v", err)
			}
		}

		got, err := repo.Prompt().Get(ctx, "U0001", "C_A")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.MessageTS != "222.000" {
			t.Errorf("expected latest prompt ts, got %q", got.MessageTS)
		}
	})

	t.Run("Get returns ErrNotFound when nothing pending", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Prompt().Get(ctx, "U_NOBODY", "C_A")
		if !errors.Is(err, interfaces.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete removes and tolerates absence", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if err := repo.Prompt().Put(ctx, &model.PendingPrompt{
			UserID: "U0001", ChannelID: "C_A", MessageTS: "333.000", CreatedAt: time.Now(),
		}); err != nil {
			t.Fatalf("put failed: %v", err)
		}

		if err := repo.Prompt().Delete(ctx, "U0001", "C_A"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := repo.Prompt().Get(ctx, "U0001", "C_A"); !errors.Is(err, interfaces.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}

		// Double delete is fine
		if err := repo.Prompt().Delete(ctx, "U0001", "C_A"); err != nil {
			t.Errorf("delete of absent prompt should not fail: %v", err)
		}
	})
}
