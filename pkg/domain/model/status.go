package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/types"
)

// PresenceStatus is the derived Slack profile status for a selected action.
// The zero value is the cleared state.
type PresenceStatus struct {
	Text       string
	Emoji      string
	Expiration int64 // epoch seconds; 0 means no expiration
}

// IsClear reports whether the status clears the user's presence
func (p PresenceStatus) IsClear() bool {
	return p.Text == "" && p.Emoji == ""
}

// StatusEntry is one row of the status table
type StatusEntry struct {
	Text  string
	Emoji string
}

// StatusTable maps status actions to presence text/emoji and computes the
// end-of-business-day expiration. It replaces the per-handler switch/case
// mapping of the original handlers; entries are static configuration.
type StatusTable struct {
	entries      map[types.StatusAction]StatusEntry
	loc          *time.Location
	endOfDayHour int
}

// DefaultEndOfDayHour is when a presence status expires (platform-native
// expiration, no application timer involved)
const DefaultEndOfDayHour = 20

// DefaultStatusEntries returns the built-in status table
func DefaultStatusEntries() map[types.StatusAction]StatusEntry {
	return map[types.StatusAction]StatusEntry{
		types.StatusActionOffice:     {Text: "office", Emoji: ":office:"},
		types.StatusActionRemote:     {Text: "remote", Emoji: ":house:"},
		types.StatusActionOutside:    {Text: "outside", Emoji: ":car:"},
		types.StatusActionRemoteRoom: {Text: "remoteroom", Emoji: ":desktop_computer:"},
	}
}

// NewStatusTable builds a status table. Entries may override text/emoji per
// action; missing actions fall back to the defaults. The leave action takes
// no entry since it always yields the cleared state.
func NewStatusTable(entries map[types.StatusAction]StatusEntry, loc *time.Location, endOfDayHour int) (*StatusTable, error) {
	if loc == nil {
		return nil, goerr.New("status table requires a business timezone")
	}
	if endOfDayHour < 0 || endOfDayHour > 23 {
		return nil, goerr.New("end-of-day hour must be 0-23", goerr.V("hour", endOfDayHour))
	}

	merged := DefaultStatusEntries()
	for action, entry := range entries {
		if !action.IsValid() || action.IsLeave() {
			return nil, goerr.New("invalid status table entry", goerr.V("action", action))
		}
		if entry.Emoji == "" {
			return nil, goerr.New("status table entry requires an emoji", goerr.V("action", action))
		}
		if entry.Text == "" {
			entry.Text = action.String()
		}
		merged[action] = entry
	}

	return &StatusTable{
		entries:      merged,
		loc:          loc,
		endOfDayHour: endOfDayHour,
	}, nil
}

// DefaultStatusTable returns the built-in table for the given timezone
func DefaultStatusTable(loc *time.Location) *StatusTable {
	t, err := NewStatusTable(nil, loc, DefaultEndOfDayHour)
	if err != nil {
		panic(err) // defaults are statically valid
	}
	return t
}

// Location returns the business timezone
func (t *StatusTable) Location() *time.Location {
	return t.loc
}

// Today returns the calendar day of now in the business timezone
func (t *StatusTable) Today(now time.Time) types.Day {
	return types.NewDay(now.In(t.loc))
}

// Map resolves a recognized action into a presence status. The leave action
// maps to the explicit cleared state with no expiration; everything else
// expires at the configured end-of-business-day hour.
func (t *StatusTable) Map(action types.StatusAction, now time.Time) (PresenceStatus, error) {
	if action.IsLeave() {
		return PresenceStatus{}, nil
	}

	entry, ok := t.entries[action]
	if !ok {
		return PresenceStatus{}, goerr.New("unknown status action", goerr.V("action", action))
	}

	return PresenceStatus{
		Text:       entry.Text,
		Emoji:      entry.Emoji,
		Expiration: t.endOfDay(now).Unix(),
	}, nil
}

// endOfDay computes the expiration instant. Slack rejects expirations in
// the past, so selections made after the end-of-day hour expire at the next
// day's hour instead.
func (t *StatusTable) endOfDay(now time.Time) time.Time {
	local := now.In(t.loc)
	eod := time.Date(local.Year(), local.Month(), local.Day(), t.endOfDayHour, 0, 0, 0, t.loc)
	if !eod.After(local) {
		eod = eod.AddDate(0, 0, 1)
	}
	return eod
}
