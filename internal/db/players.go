package db

import "fmt"

func (d *DB) UpsertPlayer(roomCode, playerID, name string, score int) error {
	_, err := d.conn.Exec(`
		INSERT INTO players (room_code, player_id, name, score)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (room_code, player_id) DO UPDATE SET name = $3, score = $4
	`, roomCode, playerID, name, score)
	if err != nil {
		return fmt.Errorf("upserting player: %w", err)
	}
	return nil
}
