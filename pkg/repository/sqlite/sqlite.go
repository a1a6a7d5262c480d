package sqlite

import (
	"database/sql"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oa-lab/zaiseki/pkg/domain/interfaces"
	_ "modernc.org/sqlite"
)

// SQLite is a file-backed repository for single-instance deployments
type SQLite struct {
	db         *sql.DB
	credential *credentialRepository
	attendance *attendanceRepository
	prompt     *promptRepository
	slackUser  *slackUserRepository
}

var _ interfaces.Repository = &SQLite{}

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	user_id    TEXT PRIMARY KEY,
	token      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS attendance_records (
	user_id    TEXT NOT NULL,
	day        TEXT NOT NULL,
	channel_id TEXT NOT NULL,
	status     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, day, channel_id)
);

CREATE INDEX IF NOT EXISTS idx_attendance_channel_day
	ON attendance_records (channel_id, day);

CREATE TABLE IF NOT EXISTS pending_prompts (
	user_id    TEXT NOT NULL,
	channel_id TEXT NOT NULL,
	message_ts TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, channel_id)
);

CREATE TABLE IF NOT EXISTS slack_users (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	real_name  TEXT NOT NULL,
	is_bot     INTEGER NOT NULL,
	deleted    INTEGER NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS slack_user_metadata (
	id                   INTEGER PRIMARY KEY CHECK (id = 1),
	last_refresh_success TIMESTAMP NOT NULL,
	last_refresh_attempt TIMESTAMP NOT NULL,
	user_count           INTEGER NOT NULL
);
`

// New opens (and if needed initializes) a SQLite repository at dbPath
func New(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V("path", dbPath))
	}

	// SQLite locks the whole file per writer; a single connection avoids
	// SQLITE_BUSY under concurrent upserts.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize schema", goerr.V("path", dbPath))
	}

	return &SQLite{
		db:         db,
		credential: &credentialRepository{db: db},
		attendance: &attendanceRepository{db: db},
		prompt:     &promptRepository{db: db},
		slackUser:  &slackUserRepository{db: db},
	}, nil
}

func (s *SQLite) Credential() interfaces.CredentialRepository {
	return s.credential
}

func (s *SQLite) Attendance() interfaces.AttendanceRepository {
	return s.attendance
}

func (s *SQLite) Prompt() interfaces.PromptRepository {
	return s.prompt
}

func (s *SQLite) SlackUser() interfaces.SlackUserRepository {
	return s.slackUser
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
