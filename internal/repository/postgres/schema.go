package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT '',
		location      TEXT NOT NULL DEFAULT '',
		hourly_rate   NUMERIC(10, 2) NOT NULL DEFAULT 0,
		eligible      BOOLEAN NOT NULL DEFAULT TRUE,
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		is_manager    BOOLEAN NOT NULL DEFAULT FALSE,
		manager_id    TEXT REFERENCES employees (id) ON DELETE SET NULL,
		password_hash TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		version       INTEGER NOT NULL DEFAULT 1,
		CONSTRAINT employees_email_key UNIQUE (email)
	)`,
	`CREATE INDEX IF NOT EXISTS employees_manager_id_idx ON employees (manager_id)`,
	`CREATE TABLE IF NOT EXISTS availabilities (
		id          TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees (id) ON DELETE CASCADE,
		day_of_week SMALLINT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT availabilities_employee_day_key UNIQUE (employee_id, day_of_week)
	)`,
	`CREATE TABLE IF NOT EXISTS shifts (
		id          TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees (id) ON DELETE CASCADE,
		date        TEXT NOT NULL,
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL,
		location    TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL CHECK (status IN ('scheduled', 'in-progress', 'completed', 'cancelled')),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS shifts_employee_date_idx ON shifts (employee_id, date)`,
	`CREATE TABLE IF NOT EXISTS time_off_requests (
		id          TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees (id) ON DELETE CASCADE,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		reason      TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL CHECK (status IN ('pending', 'approved', 'rejected', 'cancelled')),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS time_off_requests_employee_idx ON time_off_requests (employee_id, start_date)`,
}
