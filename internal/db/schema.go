package db

// Schema is the full table DDL. Email uniqueness is case-insensitive;
// payment method names are unique per user among active records only,
// so a deactivated method's name can be reused.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	email VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	first_name VARCHAR(100),
	last_name VARCHAR(100),
	preferred_currency VARCHAR(3) NOT NULL DEFAULT 'USD',
	locale VARCHAR(10) NOT NULL DEFAULT 'en-US',
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_idx
	ON users (lower(email));

CREATE TABLE IF NOT EXISTS payment_methods (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name VARCHAR(100) NOT NULL,
	method_type VARCHAR(20) NOT NULL,
	default_currency VARCHAR(3) NOT NULL,
	description TEXT,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS payment_methods_user_idx
	ON payment_methods (user_id);

CREATE UNIQUE INDEX IF NOT EXISTS payment_methods_user_name_active_idx
	ON payment_methods (user_id, lower(name)) WHERE active;
`
