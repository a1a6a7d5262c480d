package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
	slacksvc "github.com/oa-lab/zaiseki/pkg/service/slack"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for the Slack integration and the status table
type Slack struct {
	botToken      string
	signingSecret string
	timezone      string
	endOfDayHour  int
	statusTable   string
}

// Flags returns CLI flags for Slack configuration
func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot OAuth token (xoxb-...)",
			Required:    true,
			Sources:     cli.EnvVars("ZAISEKI_SLACK_BOT_TOKEN"),
			Destination: &x.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack app signing secret for request verification",
			Sources:     cli.EnvVars("ZAISEKI_SLACK_SIGNING_SECRET"),
			Destination: &x.signingSecret,
		},
		&cli.StringFlag{
			Name:        "timezone",
			Usage:       "Business timezone for attendance days and status expiration",
			Value:       "Asia/Tokyo",
			Sources:     cli.EnvVars("ZAISEKI_TIMEZONE"),
			Destination: &x.timezone,
		},
		&cli.IntFlag{
			Name:        "end-of-day-hour",
			Usage:       "Hour (0-23) when a presence status expires",
			Value:       model.DefaultEndOfDayHour,
			Sources:     cli.EnvVars("ZAISEKI_END_OF_DAY_HOUR"),
			Destination: &x.endOfDayHour,
		},
		&cli.StringFlag{
			Name:        "status-table",
			Usage:       "TOML file overriding status text/emoji per action",
			Sources:     cli.EnvVars("ZAISEKI_STATUS_TABLE"),
			Destination: &x.statusTable,
		},
	}
}

// BotToken returns the bot token
func (x *Slack) BotToken() string {
	return x.botToken
}

// SigningSecret returns the signing secret
func (x *Slack) SigningSecret() string {
	return x.signingSecret
}

// ConfigureService builds the Slack API service
func (x *Slack) ConfigureService() (slacksvc.Service, error) {
	svc, err := slacksvc.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}
	return svc, nil
}

// statusTableFile is the TOML shape of the status table overrides:
//
//	[status.office]
//	text = "本社"
//	emoji = ":office:"
type statusTableFile struct {
	Status map[string]statusEntryFile `toml:"status"`
}

type statusEntryFile struct {
	Text  string `toml:"text"`
	Emoji string `toml:"emoji"`
}

// ConfigureStatusTable builds the status table from the timezone, the
// end-of-day hour and the optional TOML override file
func (x *Slack) ConfigureStatusTable() (*model.StatusTable, error) {
	loc, err := time.LoadLocation(x.timezone)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid timezone", goerr.V("timezone", x.timezone))
	}

	var entries map[types.StatusAction]model.StatusEntry

	if x.statusTable != "" {
		raw, err := os.ReadFile(x.statusTable)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read status table", goerr.V("path", x.statusTable))
		}

		var file statusTableFile
		if err := toml.Unmarshal(raw, &file); err != nil {
			return nil, goerr.Wrap(err, "failed to parse status table", goerr.V("path", x.statusTable))
		}

		entries = make(map[types.StatusAction]model.StatusEntry, len(file.Status))
		for key, entry := range file.Status {
			action, err := types.ParseStatusAction(key)
			if err != nil {
				return nil, goerr.Wrap(err, "unknown status action in status table",
					goerr.V("path", x.statusTable), goerr.V("action", key))
			}
			entries[action] = model.StatusEntry{Text: entry.Text, Emoji: entry.Emoji}
		}
	}

	table, err := model.NewStatusTable(entries, loc, x.endOfDayHour)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid status table configuration")
	}

	return table, nil
}
