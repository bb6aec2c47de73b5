package repository

import (
	"database/sql"
	"fmt"
)

// Schema is applied at startup. The uniqueness and invariant checks the
// services rely on at commit time live here: slot numbers and emails are
// globally unique, plates unique per owner, and a partial index caps each
// vehicle at one non-terminal request.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'USER' CHECK (role IN ('USER', 'ADMIN')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT users_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS vehicles (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id),
	plate_number TEXT NOT NULL,
	vehicle_type TEXT NOT NULL CHECK (vehicle_type IN ('CAR', 'MOTORCYCLE', 'TRUCK')),
	size TEXT NOT NULL CHECK (size IN ('SMALL', 'MEDIUM', 'LARGE')),
	color TEXT NOT NULL DEFAULT '',
	model TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT vehicles_user_plate_key UNIQUE (user_id, plate_number)
);

CREATE TABLE IF NOT EXISTS parking_slots (
	id TEXT PRIMARY KEY,
	slot_number TEXT NOT NULL,
	size TEXT NOT NULL CHECK (size IN ('SMALL', 'MEDIUM', 'LARGE')),
	vehicle_type TEXT NOT NULL CHECK (vehicle_type IN ('CAR', 'MOTORCYCLE', 'TRUCK')),
	location TEXT NOT NULL CHECK (location IN ('NORTH', 'SOUTH', 'EAST', 'WEST')),
	status TEXT NOT NULL DEFAULT 'AVAILABLE' CHECK (status IN ('AVAILABLE', 'OCCUPIED', 'RESERVED', 'MAINTENANCE')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT parking_slots_slot_number_key UNIQUE (slot_number)
);

CREATE TABLE IF NOT EXISTS slot_requests (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id),
	vehicle_id TEXT NOT NULL REFERENCES vehicles(id),
	preferred_location TEXT NOT NULL DEFAULT '',
	start_time TIMESTAMPTZ,
	end_time TIMESTAMPTZ,
	notes TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED')),
	slot_id TEXT,
	rejection_reason TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT slot_requests_assignment_check CHECK (
		(status = 'APPROVED') = (slot_id IS NOT NULL)
	),
	CONSTRAINT slot_requests_reason_check CHECK (
		(status = 'REJECTED') = (rejection_reason <> '')
	)
);

CREATE UNIQUE INDEX IF NOT EXISTS slot_requests_active_vehicle_key
	ON slot_requests (vehicle_id)
	WHERE status IN ('PENDING', 'APPROVED');

CREATE TABLE IF NOT EXISTS logs (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	action TEXT NOT NULL,
	request_id TEXT NOT NULL DEFAULT '',
	detail TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
