package usecase

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
	"github.com/slack-go/slack"
)

// Button values routed by HandleInteraction. The authorize/decline literals
// are the exact values carried by the ephemeral prompt buttons.
const (
	actionValueAuthorize = "OA認証"
	actionValueDecline   = "認証不要"
)

// Token submission modal identifiers
const (
	tokenModalCallbackID = "oa_token_submission"
	tokenInputBlockID    = "oa_token_input"
	tokenInputActionID   = "oa_token_value"
)

// statusButtonLabels are the daily message button captions
var statusButtonLabels = map[types.StatusAction]string{
	types.StatusActionOffice:     "🏢 本社",
	types.StatusActionRemote:     "🏠 在宅",
	types.StatusActionOutside:    "🚗 外出",
	types.StatusActionRemoteRoom: "🖥️ リモート室",
	types.StatusActionLeave:      "👋 退勤",
}

var japaneseWeekdays = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// formatDailyDate renders a date like "2024/12/05(木)"
func formatDailyDate(t time.Time) string {
	return fmt.Sprintf("%s(%s)", t.Format("2006/01/02"), japaneseWeekdays[t.Weekday()])
}

// buildDailyStatusMessage builds the daily status selection message: one
// row of status buttons and a second row with the roster and leave buttons
func buildDailyStatusMessage(now time.Time) (string, []slack.Block) {
	text := fmt.Sprintf("ステータスを選択してください！%s", formatDailyDate(now))

	statusRow := []slack.BlockElement{
		statusButton(types.StatusActionOffice),
		statusButton(types.StatusActionRemote),
		statusButton(types.StatusActionOutside),
		statusButton(types.StatusActionRemoteRoom),
	}

	listButton := slack.NewButtonBlockElement("button_list", "",
		slack.NewTextBlockObject(slack.PlainTextType, "📋 一覧", true, false))
	listButton.Style = slack.StylePrimary

	leaveButton := statusButton(types.StatusActionLeave)
	leaveButton.Style = slack.StyleDanger

	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
			nil, nil),
		slack.NewActionBlock("status_actions", statusRow...),
		slack.NewActionBlock("aux_actions", listButton, leaveButton),
	}

	return text, blocks
}

func statusButton(action types.StatusAction) *slack.ButtonBlockElement {
	return slack.NewButtonBlockElement(
		"button_"+action.String(),
		action.String(),
		slack.NewTextBlockObject(slack.PlainTextType, statusButtonLabels[action], true, false),
	)
}

// buildAuthorizationPrompt builds the ephemeral prompt offering token
// registration or a permanent opt-out
func buildAuthorizationPrompt() (string, []slack.Block) {
	text := "ステータスを自動更新するにはSlackトークンの登録が必要です。"

	authorizeButton := slack.NewButtonBlockElement("button_authorize", actionValueAuthorize,
		slack.NewTextBlockObject(slack.PlainTextType, actionValueAuthorize, true, false))
	authorizeButton.Style = slack.StylePrimary

	declineButton := slack.NewButtonBlockElement("button_decline", actionValueDecline,
		slack.NewTextBlockObject(slack.PlainTextType, actionValueDecline, true, false))

	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
			nil, nil),
		slack.NewActionBlock("auth_actions", authorizeButton, declineButton),
	}

	return text, blocks
}

// tokenModalMetadata rides in the modal's private metadata so the view
// submission can find its originating conversation
type tokenModalMetadata struct {
	ChannelID types.ChannelID `json:"channel_id"`
	MessageTS types.MessageTS `json:"message_ts"`
}

func (m tokenModalMetadata) encode() (string, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode modal metadata")
	}
	return string(raw), nil
}

func decodeTokenModalMetadata(raw string) (tokenModalMetadata, error) {
	var m tokenModalMetadata
	if raw == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return m, goerr.Wrap(err, "failed to decode modal metadata")
	}
	return m, nil
}

// buildTokenModal builds the token capture modal. The private metadata
// carries the originating channel and thread so the submission can notify
// and dismiss the pending prompt.
func buildTokenModal(metadata string) slack.ModalViewRequest {
	input := slack.NewInputBlock(
		tokenInputBlockID,
		slack.NewTextBlockObject(slack.PlainTextType, "Slackユーザートークン", true, false),
		slack.NewTextBlockObject(slack.PlainTextType, "xoxp- で始まるトークンを入力してください", true, false),
		slack.NewPlainTextInputBlockElement(
			slack.NewTextBlockObject(slack.PlainTextType, "xoxp-...", true, false),
			tokenInputActionID,
		),
	)

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      tokenModalCallbackID,
		PrivateMetadata: metadata,
		Title:           slack.NewTextBlockObject(slack.PlainTextType, "OA認証", true, false),
		Submit:          slack.NewTextBlockObject(slack.PlainTextType, "登録", true, false),
		Close:           slack.NewTextBlockObject(slack.PlainTextType, "キャンセル", true, false),
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{input},
		},
	}
}

// rosterBucket is one classified group of channel members
type rosterBucket struct {
	Label   string
	Members []string // display names
}

// buildRosterBlocks renders the roster summary. Buckets arrive in display
// order; empty buckets are shown with a dash so absence is visible.
func buildRosterBlocks(day types.Day, buckets []rosterBucket) (string, []slack.Block) {
	text := fmt.Sprintf("%s の在席状況", day)

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, text, false, false)),
	}

	for _, bucket := range buckets {
		body := "-"
		if len(bucket.Members) > 0 {
			body = ""
			for i, name := range bucket.Members {
				if i > 0 {
					body += ", "
				}
				body += name
			}
		}

		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*%s*\n%s", bucket.Label, body), false, false),
			nil, nil))
	}

	return text, blocks
}
