package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
	"github.com/oa-lab/zaiseki/pkg/utils/async"
	"github.com/oa-lab/zaiseki/pkg/utils/errutil"
	"github.com/oa-lab/zaiseki/pkg/utils/logging"
	"github.com/slack-go/slack"
)

// ViewResponse carries a structured answer for a view submission. A non-nil
// Errors map tells the controller to respond with response_action "errors"
// so the modal re-prompts in place.
type ViewResponse struct {
	Errors map[string]string
}

// HandleInteraction routes one interaction callback to exactly one flow.
// Only the first action of a block_actions payload is consulted. Routing
// failure returns ErrMalformedPayload; flow failures after valid routing
// are logged, not escalated, so the platform still receives its
// acknowledgement.
func (uc *UseCases) HandleInteraction(ctx context.Context, callback *slack.InteractionCallback) (*ViewResponse, error) {
	if callback == nil {
		return nil, goerr.Wrap(ErrMalformedPayload, "no callback")
	}

	logger := logging.From(ctx)

	if callback.Type == slack.InteractionTypeViewSubmission {
		if callback.View.CallbackID != tokenModalCallbackID {
			return nil, goerr.Wrap(ErrMalformedPayload, "unexpected view submission",
				goerr.V("callback_id", callback.View.CallbackID))
		}
		return uc.handleTokenSubmit(ctx, callback)
	}

	actions := callback.ActionCallback.BlockActions
	if len(actions) == 0 {
		return nil, goerr.Wrap(ErrMalformedPayload, "no actions in payload",
			goerr.V("type", callback.Type))
	}
	if callback.User.ID == "" || callback.Channel.ID == "" {
		return nil, goerr.Wrap(ErrMalformedPayload, "missing user or channel",
			goerr.V("type", callback.Type))
	}

	value := actions[0].Value

	switch {
	case value == actionValueAuthorize:
		if err := uc.handleAuthorize(ctx, callback); err != nil {
			errutil.Handle(ctx, err, "authorize flow failed")
		}

	case value == actionValueDecline:
		if err := uc.handleDeclineOnce(ctx, callback); err != nil {
			errutil.Handle(ctx, err, "decline flow failed")
		}

	default:
		if action, err := types.ParseStatusAction(value); err == nil {
			uc.handleStatusChange(ctx, callback, action)
			break
		}

		// Anything else (including the valueless roster button) lists
		// the channel roster. Acknowledge first, fan out after.
		logger.Debug("dispatching roster display",
			"channel_id", callback.Channel.ID,
			"value", value,
		)
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.postRoster(ctx,
				types.ChannelID(callback.Channel.ID),
				types.MessageTS(callback.Message.Timestamp))
		})
	}

	return nil, nil
}
