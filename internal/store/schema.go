package store

// Schema is applied on open. runs holds one row per acquisition session;
// run_records holds the extracted records keyed by (run, position), with
// the field map serialised as JSON.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	site TEXT NOT NULL,
	url TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	converged INTEGER NOT NULL,
	attempts INTEGER NOT NULL,
	item_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_records (
	run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	fields TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_runs_site ON runs(site, started_at);
`
