package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/usecase"
	"github.com/oa-lab/zaiseki/pkg/utils/errutil"
	"github.com/slack-go/slack"
)

// SlackInteractionHandler handles interactive component payloads: button
// clicks and modal submissions
type SlackInteractionHandler struct {
	uc *usecase.UseCases
}

// NewSlackInteractionHandler creates the interaction handler
func NewSlackInteractionHandler(uc *usecase.UseCases) *SlackInteractionHandler {
	return &SlackInteractionHandler{uc: uc}
}

// ServeHTTP dispatches one interaction. A valid dispatch acknowledges with
// 200 even when the flow's side effects fail; only routing failures reach
// the client as 400.
func (h *SlackInteractionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	callback, err := parseInteractionPayload(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	resp, err := h.uc.HandleInteraction(ctx, callback)
	if err != nil {
		if errors.Is(err, usecase.ErrMalformedPayload) {
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
			return
		}
		errutil.HandleHTTP(ctx, w, goerr.New("internal error"), http.StatusInternalServerError)
		return
	}

	if resp != nil && len(resp.Errors) > 0 {
		writeViewErrors(ctx, w, resp.Errors)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// parseInteractionPayload reads the callback from either the form-encoded
// "payload" field (Slack's default) or a raw JSON body
func parseInteractionPayload(r *http.Request) (*slack.InteractionCallback, error) {
	var raw []byte

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		payload := r.FormValue("payload")
		if payload == "" {
			return nil, goerr.Wrap(usecase.ErrMalformedPayload, "missing payload field")
		}
		raw = []byte(payload)
	} else {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read request body")
		}
		if len(body) == 0 {
			return nil, goerr.Wrap(usecase.ErrMalformedPayload, "empty body")
		}
		raw = body
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal(raw, &callback); err != nil {
		return nil, goerr.Wrap(usecase.ErrMalformedPayload, "failed to parse interaction payload")
	}

	return &callback, nil
}

// writeViewErrors answers a view submission with field-level errors so the
// modal re-prompts in place (Slack response_action contract, HTTP 200)
func writeViewErrors(ctx context.Context, w http.ResponseWriter, fieldErrors map[string]string) {
	resp := struct {
		ResponseAction string            `json:"response_action"`
		Errors         map[string]string `json:"errors"`
	}{
		ResponseAction: "errors",
		Errors:         fieldErrors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		errutil.Handle(ctx, err, "failed to write view errors")
	}
}
