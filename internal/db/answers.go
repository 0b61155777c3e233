package db

import "fmt"

// AnswerRecord is one player's submission for one resolved round.
type AnswerRecord struct {
	RoomCode   string
	Round      int
	QuestionID string
	Category   string
	PlayerID   string
	PlayerName string
	Text       string
	Choice     *int
	IsCorrect  bool
	Awarded    int
	TimeMs     int
}

func (d *DB) AddAnswer(rec AnswerRecord) error {
	_, err := d.conn.Exec(`
		INSERT INTO answers (room_code, round_no, question_id, category, player_id, player_name,
		                     answer_text, answer_choice, is_correct, awarded, time_spent_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, rec.RoomCode, rec.Round, rec.QuestionID, rec.Category, rec.PlayerID, rec.PlayerName,
		rec.Text, rec.Choice, rec.IsCorrect, rec.Awarded, rec.TimeMs)
	if err != nil {
		return fmt.Errorf("recording answer: %w", err)
	}
	return nil
}
