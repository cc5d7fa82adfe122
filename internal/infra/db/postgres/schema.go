package postgres

// Column types keep the legacy Yes/No and payment plan values readable by
// older tooling.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGSERIAL PRIMARY KEY,
		checkin DATE NOT NULL,
		checkout DATE NOT NULL,
		days JSONB NOT NULL DEFAULT '[]',
		service_fee TEXT NOT NULL DEFAULT 'No' CHECK (service_fee IN ('No','Yes')),
		exclude_bank_holiday TEXT NOT NULL DEFAULT 'No' CHECK (exclude_bank_holiday IN ('No','Yes')),
		payment_plan TEXT NOT NULL DEFAULT 'Monthly' CHECK (payment_plan IN ('weekly','fortnighly','Monthly','full')),
		notification_date DATE NULL,
		cancellation_date DATE NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id BIGSERIAL PRIMARY KEY,
		booking_id BIGINT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		title VARCHAR(255) NOT NULL,
		night_price NUMERIC(10,2) NOT NULL DEFAULT 0,
		deposit NUMERIC(10,2) NOT NULL DEFAULT 0,
		checkout_date DATE NULL,
		is_cancelled TEXT NOT NULL DEFAULT 'No' CHECK (is_cancelled IN ('No','Yes')),
		notify_day INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS properties_booking_id_idx ON properties (booking_id)`,
	`CREATE TABLE IF NOT EXISTS holidays (
		id BIGSERIAL PRIMARY KEY,
		holiday_date DATE NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS app_outbox (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		payload BYTEA NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL,
		aggregate TEXT NOT NULL DEFAULT '',
		headers JSONB NOT NULL DEFAULT '{}',
		state TEXT NOT NULL DEFAULT 'NEW',
		attempts INT NOT NULL DEFAULT 0,
		next_attempt_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		claimed_by TEXT NOT NULL DEFAULT '',
		claimed_at TIMESTAMPTZ NULL,
		sent_at TIMESTAMPTZ NULL,
		last_error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS app_outbox_due_idx ON app_outbox (state, next_attempt_at)`,
}
