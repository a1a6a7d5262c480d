package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
	"github.com/oa-lab/zaiseki/pkg/domain/model"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
	"github.com/oa-lab/zaiseki/pkg/utils/errutil"
	"github.com/oa-lab/zaiseki/pkg/utils/logging"
	"github.com/slack-go/slack"
	"golang.org/x/sync/errgroup"
)

// resolveCredential classifies the user by their stored credential. A
// lookup failure degrades to Unregistered so a storage outage can never
// block the interaction; the real token is returned only for Registered.
func (uc *UseCases) resolveCredential(ctx context.Context, userID types.UserID) (string, types.AuthState) {
	cred, err := uc.repo.Credential().Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			errutil.Handle(ctx, err, "credential lookup failed, treating as unregistered")
		}
		return "", types.AuthStateUnregistered
	}

	if cred.State() == types.AuthStateRegistered {
		return cred.Token, types.AuthStateRegistered
	}
	return "", cred.State()
}

// registerCredential persists a credential (real token or the decline
// sentinel)
func (uc *UseCases) registerCredential(ctx context.Context, cred *model.Credential) error {
	if err := cred.Validate(); err != nil {
		return goerr.Wrap(err, "invalid credential")
	}
	if err := uc.repo.Credential().Put(ctx, cred); err != nil {
		return goerr.Wrap(err, "failed to store credential", goerr.V("user_id", cred.UserID))
	}
	return nil
}

// handleStatusChange runs the three status-change side effects as
// independently joined tasks: presence mutation, ledger upsert, and thread
// reply. Each task logs its own failure and never cancels the others; the
// join always succeeds so the caller can acknowledge.
func (uc *UseCases) handleStatusChange(ctx context.Context, callback *slack.InteractionCallback, action types.StatusAction) {
	userID := types.UserID(callback.User.ID)
	channelID := types.ChannelID(callback.Channel.ID)
	threadTS := types.MessageTS(callback.Message.Timestamp)
	now := uc.now()

	var g errgroup.Group

	g.Go(func() error {
		if err := uc.applyPresence(ctx, userID, channelID, action); err != nil {
			errutil.Handle(ctx, err, "presence mutation failed")
		}
		return nil
	})

	g.Go(func() error {
		rec := &model.AttendanceRecord{
			UserID:    userID,
			Day:       uc.statusTable.Today(now),
			ChannelID: channelID,
			Status:    action,
		}
		result, err := uc.repo.Attendance().Upsert(ctx, rec)
		if err != nil {
			errutil.Handle(ctx, err, "attendance upsert failed")
			return nil
		}
		logging.From(ctx).Debug("attendance recorded",
			"user_id", userID,
			"day", rec.Day,
			"status", action,
			"result", result,
		)
		return nil
	})

	g.Go(func() error {
		name := uc.displayName(ctx, userID)
		reply := fmt.Sprintf("%sさん、おはようございます。", name)
		if _, err := uc.slackSvc.PostThreadReply(ctx, channelID.String(), threadTS.String(), nil, reply); err != nil {
			errutil.Handle(ctx, err, "thread reply failed")
		}
		return nil
	})

	_ = g.Wait() // tasks never return errors
}

// applyPresence mutates the user's Slack status via their own token. For
// Unregistered users the ephemeral authorization prompt substitutes; for
// Declined users nothing happens, permanently.
func (uc *UseCases) applyPresence(ctx context.Context, userID types.UserID, channelID types.ChannelID, action types.StatusAction) error {
	token, state := uc.resolveCredential(ctx, userID)

	switch state {
	case types.AuthStateUnregistered:
		return uc.postAuthorizationPrompt(ctx, userID, channelID)

	case types.AuthStateDeclined:
		return nil
	}

	status, err := uc.statusTable.Map(action, uc.now())
	if err != nil {
		return goerr.Wrap(err, "failed to map status", goerr.V("action", action))
	}

	if err := uc.slackSvc.SetUserStatus(ctx, token, status); err != nil {
		return goerr.Wrap(err, "failed to set user status", goerr.V("user_id", userID))
	}

	return nil
}

// postAuthorizationPrompt posts the ephemeral authorize/decline prompt and
// records it so a later registration or decline can dismiss it
func (uc *UseCases) postAuthorizationPrompt(ctx context.Context, userID types.UserID, channelID types.ChannelID) error {
	text, blocks := buildAuthorizationPrompt()

	ts, err := uc.slackSvc.PostEphemeral(ctx, channelID.String(), userID.String(), blocks, text)
	if err != nil {
		return goerr.Wrap(err, "failed to post authorization prompt",
			goerr.V("user_id", userID), goerr.V("channel_id", channelID))
	}

	prompt := &model.PendingPrompt{
		UserID:    userID,
		ChannelID: channelID,
		MessageTS: types.MessageTS(ts),
		CreatedAt: uc.now(),
	}
	if err := uc.repo.Prompt().Put(ctx, prompt); err != nil {
		// The prompt was posted; losing the dismissal handle is tolerable
		errutil.Handle(ctx, err, "failed to record pending prompt")
	}

	return nil
}

// displayName resolves a name for presentation via the directory cache,
// falling back to a live lookup and finally to the raw user ID
func (uc *UseCases) displayName(ctx context.Context, userID types.UserID) string {
	cached, err := uc.repo.SlackUser().GetByIDs(ctx, []types.UserID{userID})
	if err == nil {
		if user, ok := cached[userID]; ok {
			return user.DisplayName()
		}
	} else {
		errutil.Handle(ctx, err, "directory cache lookup failed")
	}

	user, err := uc.slackSvc.GetUserInfo(ctx, userID.String())
	if err != nil {
		errutil.Handle(ctx, err, "user info lookup failed")
		return userID.String()
	}

	if user.RealName != "" {
		return user.RealName
	}
	if user.Name != "" {
		return user.Name
	}
	return userID.String()
}
