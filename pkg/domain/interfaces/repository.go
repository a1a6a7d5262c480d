package interfaces

import (
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is wrapped by repository backends when a record does not
// exist for the requested key
var ErrNotFound = goerr.New("record not found")

// Repository defines the interface for data persistence
type Repository interface {
	Credential() CredentialRepository
	Attendance() AttendanceRepository
	Prompt() PromptRepository
	SlackUser() SlackUserRepository

	Close() error
}
