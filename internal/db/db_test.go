package db

import (
	"os"
	"testing"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	database, err := Connect(dsn)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() {
		database.Exec("TRUNCATE answers, players, rooms")
		database.Close()
	})
	return database
}

func TestConnect(t *testing.T) {
	database := getTestDB(t)
	if err := database.Ping(); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestMigrate(t *testing.T) {
	database := getTestDB(t)

	// Verify tables exist by querying them
	tables := []string{"rooms", "players", "answers"}
	for _, table := range tables {
		var exists bool
		err := database.QueryRow(`
			SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1)
		`, table).Scan(&exists)
		if err != nil {
			t.Errorf("checking table %s: %v", table, err)
		}
		if !exists {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestMigrate_Reapply(t *testing.T) {
	database := getTestDB(t)

	// Migrations run on every startup; a second pass must be a no-op
	if err := database.Migrate(); err != nil {
		t.Errorf("Migrate() reapply error: %v", err)
	}
}

func TestUpsertRoom(t *testing.T) {
	database := getTestDB(t)

	if err := database.UpsertRoom("ABCD", 6, "lobby"); err != nil {
		t.Fatalf("UpsertRoom() error: %v", err)
	}

	// Upsert again with a status change
	if err := database.UpsertRoom("ABCD", 6, "running"); err != nil {
		t.Fatalf("UpsertRoom() update error: %v", err)
	}

	var status string
	if err := database.QueryRow("SELECT status FROM rooms WHERE code = $1", "ABCD").Scan(&status); err != nil {
		t.Fatalf("querying room: %v", err)
	}
	if status != "running" {
		t.Errorf("status = %q, want %q", status, "running")
	}
}

func TestRoomExists(t *testing.T) {
	database := getTestDB(t)

	database.UpsertRoom("EFGH", 6, "lobby")

	exists, err := database.RoomExists("EFGH")
	if err != nil {
		t.Fatalf("RoomExists() error: %v", err)
	}
	if !exists {
		t.Error("RoomExists() = false for persisted room")
	}

	exists, err = database.RoomExists("ZZZZ")
	if err != nil {
		t.Fatalf("RoomExists() error: %v", err)
	}
	if exists {
		t.Error("RoomExists() = true for unknown room")
	}
}

func TestUpsertPlayer(t *testing.T) {
	database := getTestDB(t)

	database.UpsertRoom("IJKL", 6, "running")

	id := "550e8400-e29b-41d4-a716-446655440000"
	if err := database.UpsertPlayer("IJKL", id, "Alice", 0); err != nil {
		t.Fatalf("UpsertPlayer() error: %v", err)
	}

	// Score updates flow through the same upsert
	if err := database.UpsertPlayer("IJKL", id, "Alice", 3); err != nil {
		t.Fatalf("UpsertPlayer() update error: %v", err)
	}

	var score int
	err := database.QueryRow(
		"SELECT score FROM players WHERE room_code = $1 AND player_id = $2", "IJKL", id,
	).Scan(&score)
	if err != nil {
		t.Fatalf("querying player: %v", err)
	}
	if score != 3 {
		t.Errorf("score = %d, want 3", score)
	}
}

func TestAddAnswer(t *testing.T) {
	database := getTestDB(t)

	database.UpsertRoom("MNOP", 6, "running")
	database.UpsertPlayer("MNOP", "p1", "Alice", 1)

	choice := 2
	records := []AnswerRecord{
		{RoomCode: "MNOP", Round: 1, QuestionID: "q1", Category: "general", PlayerID: "p1", PlayerName: "Alice", Text: "42", IsCorrect: true, Awarded: 1, TimeMs: 1200},
		{RoomCode: "MNOP", Round: 2, QuestionID: "q2", Category: "general", PlayerID: "p1", PlayerName: "Alice", Choice: &choice, IsCorrect: false, Awarded: 0, TimeMs: 900},
	}
	for _, rec := range records {
		if err := database.AddAnswer(rec); err != nil {
			t.Fatalf("AddAnswer() error: %v", err)
		}
	}

	var count int
	database.QueryRow("SELECT COUNT(*) FROM answers WHERE room_code = $1", "MNOP").Scan(&count)
	if count != 2 {
		t.Errorf("answer count = %d, want 2", count)
	}

	// The choice column stays NULL for text answers
	var nullChoices int
	database.QueryRow(
		"SELECT COUNT(*) FROM answers WHERE room_code = $1 AND answer_choice IS NULL", "MNOP",
	).Scan(&nullChoices)
	if nullChoices != 1 {
		t.Errorf("null choice rows = %d, want 1", nullChoices)
	}
}
