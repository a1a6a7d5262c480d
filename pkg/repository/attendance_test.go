package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

func runAttendanceRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	record := func(status types.StatusAction) *model.AttendanceRecord {
		return &model.AttendanceRecord{
			UserID:    "U0001",
			Day:       "2024-12-05",
			ChannelID: "C083QUBKU9L",
			Status:    status,
		}
	}

	t.Run("first upsert creates", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		result, err := repo.Attendance().Upsert(ctx, record(types.StatusActionOffice))
		if err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
		if result != types.UpsertCreated {
			t.Errorf("expected Created, got %v", result)
		}
	})

	t.Run("identical status is unchanged", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.Attendance().Upsert(ctx, record(types.StatusActionOffice)); err != nil {
			t.Fatalf("first upsert failed: %v", err)
		}

		result, err := repo.Attendance().Upsert(ctx, record(types.StatusActionOffice))
		if err != nil {
			t.Fatalf("second upsert failed: %v", err)
		}
		if result != types.UpsertUnchanged {
			t.Errorf("expected Unchanged, got %v", result)
		}

		// updated_at must not churn on a no-op write
		got, err := repo.Attendance().Get(ctx, "U0001", "2024-12-05", "C083QUBKU9L")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !got.UpdatedAt.Equal(got.CreatedAt) {
			t.Errorf("updated_at changed on unchanged upsert: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
		}
	})

	t.Run("different status updates and later write wins", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if _, err := repo.Attendance().Upsert(ctx, record(types.StatusActionOffice)); err != nil {
			t.Fatalf("first upsert failed: %v", err)
		}

		result, err := repo.Attendance().Upsert(ctx, record(types.StatusActionRemote))
		if err != nil {
			t.Fatalf("second upsert failed: %v", err)
		}
		if result != types.UpsertUpdated {
			t.Errorf("expected Updated, got %v", result)
		}

		got, err := repo.Attendance().Get(ctx, "U0001", "2024-12-05", "C083QUBKU9L")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.Status != types.StatusActionRemote {
			t.Errorf("expected remote, got %v", got.Status)
		}
	})

	t.Run("separate channels keep separate records", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		rec := record(types.StatusActionOffice)
		if _, err := repo.Attendance().Upsert(ctx, rec); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}

		other := record(types.StatusActionRemote)
		other.ChannelID = "C_OTHER"
		result, err := repo.Attendance().Upsert(ctx, other)
		if err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
		if result != types.UpsertCreated {
			t.Errorf("expected Created for different channel, got %v", result)
		}
	})

	t.Run("Get returns ErrNotFound for absent key", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Attendance().Get(ctx, "U_NOBODY", "2024-12-05", "C083QUBKU9L")
		if !errors.Is(err, interfaces.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListByChannelDay filters by channel and day", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		seed := []*model.AttendanceRecord{
			{UserID: "U0001", Day: "2024-12-05", ChannelID: "C_A", Status: types.StatusActionOffice},
			{UserID: "U0002", Day: "2024-12-05", ChannelID: "C_A", Status: types.StatusActionRemote},
			{UserID: "U0003", Day: "2024-12-05", ChannelID: "C_B", Status: types.StatusActionOffice},
			{UserID: "U0001", Day: "2024-12-04", ChannelID: "C_A", Status: types.StatusActionOutside},
		}
		for _, rec := range seed {
			if _, err := repo.Attendance().Upsert(ctx, rec); err != nil {
				t.Fatalf("seed upsert failed: %v", err)
			}
		}

		records, err := repo.Attendance().ListByChannelDay(ctx, "C_A", "2024-12-05")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		for _, rec := range records {
			if rec.ChannelID != "C_A" || rec.Day != "2024-12-05" {
				t.Errorf("unexpected record in result: %+v", rec)
			}
		}
	})
}
