package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createCentersTable,
		createCenterEditorsTable,
		createWeddingHallsTable,
		createSchedulesTable,
		createRequestsTable,
		createMessagesTable,
		createHallAccessTable,
		createScheduleLookupIndex,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    full_name VARCHAR(255) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'Viewer',
    department VARCHAR(100),
    phone VARCHAR(40),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (role IN ('SuperAdmin', 'Editor', 'Viewer'))
);`

const createCentersTable = `
CREATE TABLE IF NOT EXISTS centers (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    address VARCHAR(500) NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    image_url VARCHAR(1000),
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createCenterEditorsTable = `
CREATE TABLE IF NOT EXISTS center_editors (
    id SERIAL PRIMARY KEY,
    center_id INTEGER NOT NULL REFERENCES centers(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(center_id, user_id)
);`

const createWeddingHallsTable = `
CREATE TABLE IF NOT EXISTS wedding_halls (
    id SERIAL PRIMARY KEY,
    center_id INTEGER NOT NULL DEFAULT 0,
    name VARCHAR(255) NOT NULL,
    address VARCHAR(500) NOT NULL DEFAULT '',
    capacity INTEGER NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    image_url VARCHAR(1000),
    technical_details TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (capacity > 0)
);`

const createSchedulesTable = `
CREATE TABLE IF NOT EXISTS schedules (
    id SERIAL PRIMARY KEY,
    wedding_hall_id INTEGER NOT NULL REFERENCES wedding_halls(id) ON DELETE CASCADE,
    date VARCHAR(10) NOT NULL,
    start_time VARCHAR(5) NOT NULL,
    end_time VARCHAR(5) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'Available',
    created_by_user_id INTEGER,
    event_type VARCHAR(100),
    event_name VARCHAR(255),
    event_owner VARCHAR(255),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (start_time < end_time),
    CHECK (status IN ('Available', 'Reserved'))
);`

const createRequestsTable = `
CREATE TABLE IF NOT EXISTS requests (
    id SERIAL PRIMARY KEY,
    wedding_hall_id INTEGER NOT NULL REFERENCES wedding_halls(id) ON DELETE CASCADE,
    created_by_user_id INTEGER NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'Pending',
    event_type VARCHAR(100) NOT NULL,
    event_name VARCHAR(255) NOT NULL DEFAULT '',
    event_owner VARCHAR(255) NOT NULL DEFAULT '',
    event_date VARCHAR(10) NOT NULL,
    event_time VARCHAR(5) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('Pending', 'Answered', 'Rejected'))
);`

const createMessagesTable = `
CREATE TABLE IF NOT EXISTS messages (
    id SERIAL PRIMARY KEY,
    request_id INTEGER NOT NULL REFERENCES requests(id) ON DELETE CASCADE,
    sender_user_id INTEGER NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createHallAccessTable = `
CREATE TABLE IF NOT EXISTS hall_access (
    id SERIAL PRIMARY KEY,
    hall_id INTEGER NOT NULL REFERENCES wedding_halls(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(hall_id, user_id)
);`

const createScheduleLookupIndex = `
CREATE INDEX IF NOT EXISTS schedules_hall_date_idx
ON schedules (wedding_hall_id, date);`
