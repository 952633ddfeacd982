package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS delivered_notifications (
	notification_id INTEGER PRIMARY KEY,
	user_id         INTEGER NOT NULL,
	delivered_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_delivered_user ON delivered_notifications(user_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS print_jobs (
	id         TEXT PRIMARY KEY,
	path       TEXT NOT NULL,
	summary    TEXT NOT NULL DEFAULT '',
	todo_count INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_print_jobs_created ON print_jobs(created_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
