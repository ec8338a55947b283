package constants

// AppName is used for the keyring service, the Postgres search_path, and the
// default config directory name.
const AppName = "habitbot"

// DayFormat is the date-only layout used for ledger days. Days are stored as
// plain strings so no timezone information ever reaches the schema.
const DayFormat = "2006-01-02"

// TimestampFormat is the layout for created_at columns.
const TimestampFormat = "2006-01-02T15:04:05Z07:00" // time.RFC3339

// WeekLength is the number of days in a completion matrix row.
const WeekLength = 7

// DefaultDBFile is the default SQLite database location, relative to the
// user's home directory.
const DefaultDBFile = ".config/habitbot/habitbot.db"

// DefaultKeyringUser is the account name under which the bot token is stored
// in the OS keyring.
const DefaultKeyringUser = "bot-token"
