package config

// NewSlackForTest builds a Slack config without going through CLI flags
func NewSlackForTest(timezone string, endOfDayHour int, statusTable string) *Slack {
	return &Slack{
		timezone:     timezone,
		endOfDayHour: endOfDayHour,
		statusTable:  statusTable,
	}
}

// NewLoggerForTest builds a Logger config without going through CLI flags
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}
