package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
	"github.com/oa-lab/zaiseki/pkg/utils/errutil"
	"github.com/slack-go/slack"
)

// handleAuthorize opens the token capture modal. The trigger ID is
// single-use and expires within seconds, so the view is opened before any
// other work.
func (uc *UseCases) handleAuthorize(ctx context.Context, callback *slack.InteractionCallback) error {
	if callback.TriggerID == "" {
		return goerr.Wrap(ErrMalformedPayload, "authorize without trigger ID")
	}

	metadata, err := tokenModalMetadata{
		ChannelID: types.ChannelID(callback.Channel.ID),
		MessageTS: types.MessageTS(callback.Message.Timestamp),
	}.encode()
	if err != nil {
		return err
	}

	if err := uc.slackSvc.OpenView(ctx, callback.TriggerID, buildTokenModal(metadata)); err != nil {
		return goerr.Wrap(err, "failed to open token modal",
			goerr.V("user_id", callback.User.ID))
	}

	return nil
}

// handleDeclineOnce records the permanent opt-out and dismisses the
// pending prompt. The user is never prompted again and their status is
// never mutated.
func (uc *UseCases) handleDeclineOnce(ctx context.Context, callback *slack.InteractionCallback) error {
	userID := types.UserID(callback.User.ID)
	channelID := types.ChannelID(callback.Channel.ID)

	cred := model.NewDeclinedCredential(userID, uc.now())
	if err := uc.registerCredential(ctx, cred); err != nil {
		return err
	}

	uc.dismissPendingPrompt(ctx, userID, channelID)

	return nil
}

// handleTokenSubmit persists the submitted token. On persistence failure a
// field-level error keyed to the token input block is returned so the modal
// re-prompts in place instead of closing.
func (uc *UseCases) handleTokenSubmit(ctx context.Context, callback *slack.InteractionCallback) (*ViewResponse, error) {
	userID := types.UserID(callback.User.ID)
	if userID == "" {
		return nil, goerr.Wrap(ErrMalformedPayload, "view submission without user")
	}

	token := extractTokenInput(callback)
	if token == "" {
		return &ViewResponse{Errors: map[string]string{
			tokenInputBlockID: "トークンを入力してください",
		}}, nil
	}

	metadata, err := decodeTokenModalMetadata(callback.View.PrivateMetadata)
	if err != nil {
		errutil.Handle(ctx, err, "broken modal metadata, skipping prompt dismissal")
	}

	cred := model.NewCredential(userID, token, uc.now())
	if err := uc.registerCredential(ctx, cred); err != nil {
		errutil.Handle(ctx, err, "token registration failed")
		return &ViewResponse{Errors: map[string]string{
			tokenInputBlockID: "トークンの保存に失敗しました。もう一度お試しください。",
		}}, nil
	}

	if metadata.ChannelID != "" {
		uc.dismissPendingPrompt(ctx, userID, metadata.ChannelID)

		if _, err := uc.slackSvc.PostEphemeral(ctx,
			metadata.ChannelID.String(), userID.String(),
			nil, "トークンを登録しました。次回からステータスが自動更新されます。"); err != nil {
			errutil.Handle(ctx, err, "failed to post registration notice")
		}
	}

	return nil, nil
}

// dismissPendingPrompt deletes the tracked ephemeral prompt, best effort.
// A missing prompt is normal (it may never have been recorded).
func (uc *UseCases) dismissPendingPrompt(ctx context.Context, userID types.UserID, channelID types.ChannelID) {
	prompt, err := uc.repo.Prompt().Get(ctx, userID, channelID)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			errutil.Handle(ctx, err, "pending prompt lookup failed")
		}
		return
	}

	if err := uc.slackSvc.DeleteMessage(ctx, channelID.String(), prompt.MessageTS.String()); err != nil {
		errutil.Handle(ctx, err, "failed to delete prompt message")
	}

	if err := uc.repo.Prompt().Delete(ctx, userID, channelID); err != nil {
		errutil.Handle(ctx, err, "failed to delete pending prompt record")
	}
}

func extractTokenInput(callback *slack.InteractionCallback) string {
	if callback.View.State == nil {
		return ""
	}

	blockValues, ok := callback.View.State.Values[tokenInputBlockID]
	if !ok {
		return ""
	}

	return strings.TrimSpace(blockValues[tokenInputActionID].Value)
}
