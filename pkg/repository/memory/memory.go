package memory

import (
	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
)

// Memory is an in-memory repository for development and tests
type Memory struct {
	credential *credentialRepository
	attendance *attendanceRepository
	prompt     *promptRepository
	slackUser  *slackUserRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		credential: newCredentialRepository(),
		attendance: newAttendanceRepository(),
		prompt:     newPromptRepository(),
		slackUser:  newSlackUserRepository(),
	}
}

func (m *Memory) Credential() interfaces.CredentialRepository {
	return m.credential
}

func (m *Memory) Attendance() interfaces.AttendanceRepository {
	return m.attendance
}

func (m *Memory) Prompt() interfaces.PromptRepository {
	return m.prompt
}

func (m *Memory) SlackUser() interfaces.SlackUserRepository {
	return m.slackUser
}

func (m *Memory) Close() error {
	return nil
}
