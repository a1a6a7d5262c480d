package types

import "fmt"

// StatusAction represents a status selection button on the daily message
type StatusAction string

const (
	StatusActionOffice     StatusAction = "office"
	StatusActionRemote     StatusAction = "remote"
	StatusActionOutside    StatusAction = "outside"
	StatusActionRemoteRoom StatusAction = "remoteroom"
	StatusActionLeave      StatusAction = "goHome"
)

// AllStatusActions returns all valid status actions
func AllStatusActions() []StatusAction {
	return []StatusAction{
		StatusActionOffice,
		StatusActionRemote,
		StatusActionOutside,
		StatusActionRemoteRoom,
		StatusActionLeave,
	}
}

// IsValid checks if the status action is valid
func (s StatusAction) IsValid() bool {
	switch s {
	case StatusActionOffice,
		StatusActionRemote,
		StatusActionOutside,
		StatusActionRemoteRoom,
		StatusActionLeave:
		return true
	default:
		return false
	}
}

// IsLeave reports whether the action clears the presence status
func (s StatusAction) IsLeave() bool {
	return s == StatusActionLeave
}

// String returns the string representation of the status action
func (s StatusAction) String() string {
	return string(s)
}

// ParseStatusAction parses a string into a StatusAction
func ParseStatusAction(s string) (StatusAction, error) {
	action := StatusAction(s)
	if !action.IsValid() {
		return "", fmt.Errorf("invalid status action: %s", s)
	}
	return action, nil
}
