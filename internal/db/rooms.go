package db

import "fmt"

func (d *DB) UpsertRoom(code string, rounds int, status string) error {
	_, err := d.conn.Exec(`
		INSERT INTO rooms (code, rounds, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET rounds = $2, status = $3
	`, code, rounds, status)
	if err != nil {
		return fmt.Errorf("upserting room: %w", err)
	}
	return nil
}

func (d *DB) RoomExists(code string) (bool, error) {
	var exists bool
	err := d.conn.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM rooms WHERE code = $1)
	`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking room: %w", err)
	}
	return exists, nil
}
