package slots

import "database/sql"

var postgresQueries = queries{
	get: `SELECT value FROM slots WHERE key = $1`,
	upsert: `
		INSERT INTO slots (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`,
	delete: `DELETE FROM slots WHERE key = $1`,
	clear:  `DELETE FROM slots`,
	list:   `SELECT key, value FROM slots`,
}

// NewPostgresRepository uses $n placeholders.
func NewPostgresRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, q: postgresQueries}
}
