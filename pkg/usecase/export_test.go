package usecase

import (
	"context"

	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

// PostRoster exposes the roster flow without the async dispatch
func (uc *UseCases) PostRoster(ctx context.Context, channelID types.ChannelID, threadTS types.MessageTS) error {
	return uc.postRoster(ctx, channelID, threadTS)
}

var FormatDailyDate = formatDailyDate
