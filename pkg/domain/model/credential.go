package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

// DeclinedTokenSentinel is stored instead of a real token when the user
// has permanently opted out of authorization prompts. It is distinct from
// the absence of a record.
const DeclinedTokenSentinel = "Not required"

// Credential is a per-user Slack token used for status-mutating calls.
// Created by the token submission flow, never deleted by the core.
type Credential struct {
	UserID    types.UserID
	Token     string
	UpdatedAt time.Time
}

// NewCredential creates a credential holding a real user token
func NewCredential(userID types.UserID, token string, now time.Time) *Credential {
	return &Credential{
		UserID:    userID,
		Token:     token,
		UpdatedAt: now,
	}
}

// NewDeclinedCredential creates the opt-out sentinel credential
func NewDeclinedCredential(userID types.UserID, now time.Time) *Credential {
	return &Credential{
		UserID:    userID,
		Token:     DeclinedTokenSentinel,
		UpdatedAt: now,
	}
}

// State classifies the credential. A nil credential means the user has
// never been seen and is Unregistered.
func (c *Credential) State() types.AuthState {
	switch {
	case c == nil:
		return types.AuthStateUnregistered
	case c.Token == DeclinedTokenSentinel:
		return types.AuthStateDeclined
	default:
		return types.AuthStateRegistered
	}
}

// Validate checks if the credential is storable
func (c *Credential) Validate() error {
	if err := c.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid credential user ID")
	}
	if c.Token == "" {
		return goerr.New("credential token cannot be empty", goerr.V("user_id", c.UserID))
	}
	return nil
}
