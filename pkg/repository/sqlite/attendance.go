package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

type attendanceRepository struct {
	db *sql.DB
}

// Upsert applies read-modify-write semantics inside a transaction
func (r *attendanceRepository) Upsert(ctx context.Context, rec *model.AttendanceRecord) (types.UpsertResult, error) {
	if err := rec.Validate(); err != nil {
		return "", goerr.Wrap(err, "invalid attendance record")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	now := time.Now()

	var current string
	row := tx.QueryRowContext(ctx,
		`SELECT status FROM attendance_records WHERE user_id = ? AND day = ? AND channel_id = ?`,
		string(rec.UserID), string(rec.Day), string(rec.ChannelID),
	)

	switch err := row.Scan(&current); {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO attendance_records (user_id, day, channel_id, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			string(rec.UserID), string(rec.Day), string(rec.ChannelID), string(rec.Status), now, now,
		); err != nil {
			return "", goerr.Wrap(err, "failed to insert attendance record")
		}
		if err := tx.Commit(); err != nil {
			return "", goerr.Wrap(err, "failed to commit insert")
		}
		return types.UpsertCreated, nil

	case err != nil:
		return "", goerr.Wrap(err, "failed to read attendance record")

	case current == string(rec.Status):
		// Identical status: no write, no updated_at churn
		return types.UpsertUnchanged, nil

	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE attendance_records SET status = ?, updated_at = ?
			 WHERE user_id = ? AND day = ? AND channel_id = ?`,
			string(rec.Status), now, string(rec.UserID), string(rec.Day), string(rec.ChannelID),
		); err != nil {
			return "", goerr.Wrap(err, "failed to update attendance record")
		}
		if err := tx.Commit(); err != nil {
			return "", goerr.Wrap(err, "failed to commit update")
		}
		return types.UpsertUpdated, nil
	}
}

// Get retrieves a record by its natural key
func (r *attendanceRepository) Get(ctx context.Context, userID types.UserID, day types.Day, channelID types.ChannelID) (*model.AttendanceRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, day, channel_id, status, created_at, updated_at
		 FROM attendance_records WHERE user_id = ? AND day = ? AND channel_id = ?`,
		string(userID), string(day), string(channelID),
	)

	rec, err := scanAttendance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "attendance record not found",
				goerr.V("user_id", userID), goerr.V("day", day), goerr.V("channel_id", channelID))
		}
		return nil, goerr.Wrap(err, "failed to get attendance record")
	}

	return rec, nil
}

// ListByChannelDay retrieves all records for a channel on a day
func (r *attendanceRepository) ListByChannelDay(ctx context.Context, channelID types.ChannelID, day types.Day) ([]*model.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, day, channel_id, status, created_at, updated_at
		 FROM attendance_records WHERE channel_id = ? AND day = ?`,
		string(channelID), string(day),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list attendance records",
			goerr.V("channel_id", channelID), goerr.V("day", day))
	}
	defer rows.Close() //nolint:errcheck

	var records []*model.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan attendance record")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate attendance records")
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row rowScanner) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	var userID, day, channelID, status string
	if err := row.Scan(&userID, &day, &channelID, &status, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.UserID = types.UserID(userID)
	rec.Day = types.Day(day)
	rec.ChannelID = types.ChannelID(channelID)
	rec.Status = types.StatusAction(status)
	return &rec, nil
}
