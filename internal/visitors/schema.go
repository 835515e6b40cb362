package visitors

const schemaSQL = `
CREATE TABLE IF NOT EXISTS visits (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	visitor_hash  TEXT NOT NULL,
	user_agent    TEXT NOT NULL DEFAULT '',
	path          TEXT NOT NULL,
	visited_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_visits_visited_at ON visits(visited_at);
CREATE INDEX IF NOT EXISTS idx_visits_path ON visits(path);
`
