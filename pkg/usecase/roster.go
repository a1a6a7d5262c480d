package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
	"github.com/oa-lab/zaiseki/pkg/utils/errutil"
	"github.com/oa-lab/zaiseki/pkg/utils/logging"
	"github.com/slack-go/slack"
	"golang.org/x/sync/errgroup"
)

const rosterAwayLabel = "🙈 未回答"

// postRoster classifies the channel members by today's attendance records
// and posts a read-only summary into the thread. Runs after the HTTP
// acknowledgement; all failures end here.
func (uc *UseCases) postRoster(ctx context.Context, channelID types.ChannelID, threadTS types.MessageTS) error {
	memberIDs, err := uc.slackSvc.ListChannelMembers(ctx, channelID.String())
	if err != nil {
		return goerr.Wrap(err, "failed to list channel members", goerr.V("channel_id", channelID))
	}

	members, err := uc.resolveMembers(ctx, memberIDs)
	if err != nil {
		return err
	}

	day := uc.statusTable.Today(uc.now())

	records, err := uc.repo.Attendance().ListByChannelDay(ctx, channelID, day)
	if err != nil {
		// Roster still renders with everyone in the away bucket
		errutil.Handle(ctx, err, "attendance list failed, roster degrades to away")
		records = nil
	}

	statusByUser := make(map[types.UserID]types.StatusAction, len(records))
	for _, rec := range records {
		statusByUser[rec.UserID] = rec.Status
	}

	buckets := classifyRoster(members, statusByUser)

	text, blocks := buildRosterBlocks(day, buckets)
	if err := uc.deliverRoster(ctx, channelID, threadTS, blocks, text); err != nil {
		return err
	}

	logging.From(ctx).Info("posted roster",
		"channel_id", channelID,
		"day", day,
		"member_count", len(members),
	)

	return nil
}

// deliverRoster posts the summary, or updates the one already in the
// thread when this process posted one before. An update failure (e.g. the
// summary was deleted by hand) falls back to a fresh post.
func (uc *UseCases) deliverRoster(ctx context.Context, channelID types.ChannelID, threadTS types.MessageTS, blocks []slack.Block, text string) error {
	key := channelID.String() + "/" + threadTS.String()

	uc.rosterMu.Lock()
	existing := uc.rosterPosts[key]
	uc.rosterMu.Unlock()

	if existing != "" {
		err := uc.slackSvc.UpdateMessage(ctx, channelID.String(), existing, blocks, text)
		if err == nil {
			return nil
		}
		errutil.Handle(ctx, err, "roster update failed, posting a fresh summary")
	}

	ts, err := uc.slackSvc.PostThreadReply(ctx, channelID.String(), threadTS.String(), blocks, text)
	if err != nil {
		return goerr.Wrap(err, "failed to post roster", goerr.V("channel_id", channelID))
	}

	uc.rosterMu.Lock()
	uc.rosterPosts[key] = ts
	uc.rosterMu.Unlock()

	return nil
}

// resolveMembers maps member IDs to directory entries, excluding bot and
// deleted accounts. Cache misses fall back to live user-info lookups with
// bounded concurrency.
func (uc *UseCases) resolveMembers(ctx context.Context, memberIDs []string) ([]*model.SlackUser, error) {
	ids := make([]types.UserID, 0, len(memberIDs))
	for _, id := range memberIDs {
		ids = append(ids, types.UserID(id))
	}

	cached, err := uc.repo.SlackUser().GetByIDs(ctx, ids)
	if err != nil {
		errutil.Handle(ctx, err, "directory cache lookup failed, falling back to live lookups")
		cached = nil
	}

	var mu sync.Mutex
	members := make([]*model.SlackUser, 0, len(ids))

	var g errgroup.Group
	g.SetLimit(uc.rosterLookupLimit)

	for _, id := range ids {
		if user, ok := cached[id]; ok {
			if !user.IsBot && !user.Deleted {
				members = append(members, user)
			}
			continue
		}

		g.Go(func() error {
			info, err := uc.slackSvc.GetUserInfo(ctx, id.String())
			if err != nil {
				// One unresolvable member does not sink the roster
				errutil.Handle(ctx, err, "member lookup failed")
				return nil
			}
			if info.IsBot || info.Deleted {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			members = append(members, &model.SlackUser{
				ID:       id,
				Name:     info.Name,
				RealName: info.RealName,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, goerr.Wrap(err, "member resolution failed")
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].DisplayName() < members[j].DisplayName()
	})

	return members, nil
}

// classifyRoster groups members by their recorded status. Members with no
// record for the day land in the away bucket.
func classifyRoster(members []*model.SlackUser, statusByUser map[types.UserID]types.StatusAction) []rosterBucket {
	order := types.AllStatusActions()

	byStatus := make(map[types.StatusAction][]string, len(order))
	var away []string

	for _, member := range members {
		status, ok := statusByUser[member.ID]
		if !ok {
			away = append(away, member.DisplayName())
			continue
		}
		byStatus[status] = append(byStatus[status], member.DisplayName())
	}

	buckets := make([]rosterBucket, 0, len(order)+1)
	for _, action := range order {
		buckets = append(buckets, rosterBucket{
			Label:   statusButtonLabels[action],
			Members: byStatus[action],
		})
	}
	buckets = append(buckets, rosterBucket{Label: rosterAwayLabel, Members: away})

	return buckets
}
