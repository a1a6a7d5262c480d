package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
	"github.com/oa-lab/zaiseki/pkg/utils/logging"
)

// PostDailyMessage posts the status selection message for today into the
// channel. Invoked by the notify command, typically from a scheduler.
func (uc *UseCases) PostDailyMessage(ctx context.Context, channelID types.ChannelID) error {
	if err := channelID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid notify channel")
	}

	now := uc.now().In(uc.statusTable.Location())
	text, blocks := buildDailyStatusMessage(now)

	ts, err := uc.slackSvc.PostMessage(ctx, channelID.String(), blocks, text)
	if err != nil {
		return goerr.Wrap(err, "failed to post daily message", goerr.V("channel_id", channelID))
	}

	logging.From(ctx).Info("posted daily status message",
		"channel_id", channelID,
		"message_ts", ts,
	)

	return nil
}
