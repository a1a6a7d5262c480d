package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/cli/config"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
	"github.com/oa-lab/zaiseki/pkg/repository/memory"
	"github.com/oa-lab/zaiseki/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// cmdNotify posts the daily status selection message. Meant to be run by
// a scheduler (cron, Cloud Scheduler) on business-day mornings.
func cmdNotify() *cli.Command {
	var channelID string
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "channel-id",
			Usage:       "Channel to post the status selection message to",
			Required:    true,
			Sources:     cli.EnvVars("ZAISEKI_CHANNEL_ID"),
			Destination: &channelID,
		},
	}
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "notify",
		Aliases: []string{"n"},
		Usage:   "Post the daily status selection message",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			slackSvc, err := slackCfg.ConfigureService()
			if err != nil {
				return err
			}

			statusTable, err := slackCfg.ConfigureStatusTable()
			if err != nil {
				return err
			}

			// One-shot posting touches no stored state
			uc := usecase.New(memory.New(), slackSvc, statusTable)

			if err := uc.PostDailyMessage(ctx, types.ChannelID(channelID)); err != nil {
				return goerr.Wrap(err, "failed to post daily message")
			}

			return nil
		},
	}
}
