package types

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// UserID is the immutable Slack user ID (e.g. "U083XXXXXXX").
// It is the canonical key for both credential and attendance lookups;
// display names are resolved only for presentation.
type UserID string

// Validate checks if the UserID is valid
func (u UserID) Validate() error {
	if u == "" {
		return goerr.New("user ID cannot be empty")
	}
	return nil
}

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}

// ChannelID is a Slack channel ID (e.g. "C083QUBKU9L")
type ChannelID string

// Validate checks if the ChannelID is valid
func (c ChannelID) Validate() error {
	if c == "" {
		return goerr.New("channel ID cannot be empty")
	}
	return nil
}

// String returns the string representation of ChannelID
func (c ChannelID) String() string {
	return string(c)
}

// MessageTS is a Slack message timestamp, used as the thread anchor
type MessageTS string

// String returns the string representation of MessageTS
func (t MessageTS) String() string {
	return string(t)
}

// Day is a calendar day in the business timezone, formatted "2006-01-02".
// Together with UserID and ChannelID it forms the natural key of an
// attendance record.
type Day string

const dayLayout = "2006-01-02"

// NewDay truncates t to a calendar day in t's location
func NewDay(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

// Validate checks if the Day is a well-formed calendar day
func (d Day) Validate() error {
	if _, err := time.Parse(dayLayout, string(d)); err != nil {
		return goerr.Wrap(err, "invalid day format", goerr.V("day", d))
	}
	return nil
}

// String returns the string representation of Day
func (d Day) String() string {
	return string(d)
}
