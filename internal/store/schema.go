package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS client_state (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

// Well-known keys in client_state.
const (
	keyAuthToken  = "auth_token"
	keyTimeFilter = "last_time_filter"
)
