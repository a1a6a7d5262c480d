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
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const attendanceCollection = "attendance_records"

type attendanceRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

// attendanceDoc is the Firestore persistence model
type attendanceDoc struct {
	UserID    string    `firestore:"user_id"`
	Day       string    `firestore:"day"`
	ChannelID string    `firestore:"channel_id"`
	Status    string    `firestore:"status"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (r *attendanceRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + attendanceCollection)
	}
	return r.client.Collection(attendanceCollection)
}

// docID encodes the natural key; user and channel IDs never contain "_"
// outside their alphanumeric Slack form, and day has a fixed format
func docID(userID types.UserID, day types.Day, channelID types.ChannelID) string {
	return fmt.Sprintf("%s_%s_%s", userID, day, channelID)
}

func fromAttendanceDoc(doc *attendanceDoc) *model.AttendanceRecord {
	return &model.AttendanceRecord{
		UserID:    types.UserID(doc.UserID),
		Day:       types.Day(doc.Day),
		ChannelID: types.ChannelID(doc.ChannelID),
		Status:    types.StatusAction(doc.Status),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

// Upsert applies read-modify-write semantics in a Firestore transaction so
// overlapping requests for the same key serialize at the storage layer
func (r *attendanceRepository) Upsert(ctx context.Context, rec *model.AttendanceRecord) (types.UpsertResult, error) {
	if err := rec.Validate(); err != nil {
		return "", goerr.Wrap(err, "invalid attendance record")
	}

	ref := r.collection().Doc(docID(rec.UserID, rec.Day, rec.ChannelID))
	now := time.Now()

	var result types.UpsertResult
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return goerr.Wrap(err, "failed to read attendance record")
			}
			result = types.UpsertCreated
			return tx.Set(ref, &attendanceDoc{
				UserID:    string(rec.UserID),
				Day:       string(rec.Day),
				ChannelID: string(rec.ChannelID),
				Status:    string(rec.Status),
				CreatedAt: now,
				UpdatedAt: now,
			})
		}

		var existing attendanceDoc
		if err := doc.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal attendance record")
		}

		if existing.Status == string(rec.Status) {
			result = types.UpsertUnchanged
			return nil
		}

		result = types.UpsertUpdated
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(rec.Status)},
			{Path: "updated_at", Value: now},
		})
	})
	if err != nil {
		return "", goerr.Wrap(err, "attendance upsert transaction failed",
			goerr.V("user_id", rec.UserID), goerr.V("day", rec.Day), goerr.V("channel_id", rec.ChannelID))
	}

	return result, nil
}

// Get retrieves a record by its natural key
func (r *attendanceRepository) Get(ctx context.Context, userID types.UserID, day types.Day, channelID types.ChannelID) (*model.AttendanceRecord, error) {
	doc, err := r.collection().Doc(docID(userID, day, channelID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "attendance record not found",
				goerr.V("user_id", userID), goerr.V("day", day), goerr.V("channel_id", channelID))
		}
		return nil, goerr.Wrap(err, "failed to get attendance record")
	}

	var ad attendanceDoc
	if err := doc.DataTo(&ad); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal attendance record")
	}

	return fromAttendanceDoc(&ad), nil
}

// ListByChannelDay retrieves all records for a channel on a day
func (r *attendanceRepository) ListByChannelDay(ctx context.Context, channelID types.ChannelID, day types.Day) ([]*model.AttendanceRecord, error) {
	iter := r.collection().
		Where("channel_id", "==", string(channelID)).
		Where("day", "==", string(day)).
		Documents(ctx)
	defer iter.Stop()

	var records []*model.AttendanceRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate attendance records",
				goerr.V("channel_id", channelID), goerr.V("day", day))
		}

		var ad attendanceDoc
		if err := doc.DataTo(&ad); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal attendance record", goerr.V("docID", doc.Ref.ID))
		}

		records = append(records, fromAttendanceDoc(&ad))
	}

	return records, nil
}
