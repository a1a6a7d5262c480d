package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
	slacksvc "github.com/oa-lab/zaiseki/pkg/service/slack"
	"github.com/slack-go/slack"
)

// rosterText flattens the posted blocks for substring assertions
func rosterText(blocks []slack.Block) string {
	var sb strings.Builder
	for _, block := range blocks {
		switch b := block.(type) {
		case *slack.HeaderBlock:
			sb.WriteString(b.Text.Text)
			sb.WriteString("\n")
		case *slack.SectionBlock:
			sb.WriteString(b.Text.Text)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func TestPostRoster(t *testing.T) {
	ctx := context.Background()

	t.Run("classifies members by today's record", func(t *testing.T) {
		uc, repo, svc := newTestUseCases(t)

		svc.channelMembers = []string{"U001", "U002", "U003", "UBOT"}
		gt.NoError(t, repo.SlackUser().SaveMany(ctx, []*model.SlackUser{
			{ID: "U001", RealName: "山田太郎", UpdatedAt: testNow},
			{ID: "U002", RealName: "佐藤花子", UpdatedAt: testNow},
			{ID: "U003", RealName: "鈴木一郎", UpdatedAt: testNow},
			{ID: "UBOT", Name: "zaiseki-bot", IsBot: true, UpdatedAt: testNow},
		})).Required()

		day := types.NewDay(testNow)
		for _, seed := range []struct {
			user   types.UserID
			status types.StatusAction
		}{
			{"U001", types.StatusActionOffice},
			{"U002", types.StatusActionRemote},
		} {
			_, err := repo.Attendance().Upsert(ctx, &model.AttendanceRecord{
				UserID:    seed.user,
				Day:       day,
				ChannelID: "C001",
				Status:    seed.status,
			})
			gt.NoError(t, err).Required()
		}

		gt.NoError(t, uc.PostRoster(ctx, "C001", "1000.0001")).Required()

		gt.Array(t, svc.threadReplies).Length(1).Required()
		reply := svc.threadReplies[0]
		gt.Value(t, reply.ChannelID).Equal("C001")
		gt.Value(t, reply.ThreadTS).Equal("1000.0001")

		text := rosterText(reply.Blocks)
		gt.String(t, text).Contains("山田太郎")
		gt.String(t, text).Contains("佐藤花子")
		gt.String(t, text).Contains("鈴木一郎") // away bucket
		gt.String(t, text).Contains("未回答")

		// bots never appear
		gt.Bool(t, strings.Contains(text, "zaiseki-bot")).False()
	})

	t.Run("cache misses fall back to live lookups", func(t *testing.T) {
		uc, _, svc := newTestUseCases(t)

		svc.channelMembers = []string{"U010", "U011"}
		svc.users["U010"] = &slacksvc.User{ID: "U010", RealName: "live lookup"}
		// U011 resolves nowhere and is skipped

		gt.NoError(t, uc.PostRoster(ctx, "C001", "1000.0001")).Required()

		gt.Array(t, svc.threadReplies).Length(1).Required()
		text := rosterText(svc.threadReplies[0].Blocks)
		gt.String(t, text).Contains("live lookup")
	})

	t.Run("empty channel still posts a summary", func(t *testing.T) {
		uc, _, svc := newTestUseCases(t)

		gt.NoError(t, uc.PostRoster(ctx, "C001", "1000.0001")).Required()
		gt.Array(t, svc.threadReplies).Length(1)
	})

	t.Run("repeat request updates the summary in place", func(t *testing.T) {
		uc, repo, svc := newTestUseCases(t)

		svc.channelMembers = []string{"U001"}
		gt.NoError(t, repo.SlackUser().SaveMany(ctx, []*model.SlackUser{
			{ID: "U001", RealName: "山田太郎", UpdatedAt: testNow},
		})).Required()

		gt.NoError(t, uc.PostRoster(ctx, "C001", "1000.0001")).Required()

		_, err := repo.Attendance().Upsert(ctx, &model.AttendanceRecord{
			UserID:    "U001",
			Day:       types.NewDay(testNow),
			ChannelID: "C001",
			Status:    types.StatusActionOffice,
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, uc.PostRoster(ctx, "C001", "1000.0001")).Required()

		// one posted summary, then one in-place update of it
		gt.Array(t, svc.threadReplies).Length(1).Required()
		gt.Array(t, svc.updates).Length(1).Required()
		gt.Value(t, svc.updates[0].ChannelID).Equal("C001")
		gt.Value(t, svc.updates[0].Timestamp).Equal("3333.0003")
		gt.String(t, rosterText(svc.updates[0].Blocks)).Contains("山田太郎")

		// a different thread posts its own summary
		gt.NoError(t, uc.PostRoster(ctx, "C001", "1000.0002")).Required()
		gt.Array(t, svc.threadReplies).Length(2)
	})
}
