package reports

import (
	"database/sql"
	"fmt"

	"trivianight/internal/db"
)

// Queries wraps read-side aggregations over the persistence gateway, used
// by the results and CSV export endpoints.
type Queries struct {
	db *db.DB
}

func NewQueries(d *db.DB) *Queries {
	return &Queries{db: d}
}

// RoomResults builds the full report for a room. Rooms unknown to the
// database come back with zero rounds and status "unknown" rather than an
// error, matching what the export surface expects.
func (q *Queries) RoomResults(code string) (*RoomResults, error) {
	res := &RoomResults{
		RoomCode: code,
		Status:   "unknown",
		Players:  []PlayerRow{},
		Answers:  []AnswerRow{},
	}

	err := q.db.QueryRow(`
		SELECT rounds, status FROM rooms WHERE code = $1
	`, code).Scan(&res.Rounds, &res.Status)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("querying room: %w", err)
	}

	rows, err := q.db.Query(`
		SELECT player_id, name, score FROM players
		WHERE room_code = $1
		ORDER BY score DESC, name ASC
	`, code)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p PlayerRow
		if err := rows.Scan(&p.PlayerID, &p.Name, &p.Score); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		res.Players = append(res.Players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating players: %w", err)
	}

	answers, err := q.roomAnswers(code)
	if err != nil {
		return nil, err
	}
	res.Answers = answers
	return res, nil
}

func (q *Queries) roomAnswers(code string) ([]AnswerRow, error) {
	rows, err := q.db.Query(`
		SELECT round_no, question_id, category, player_id, player_name,
		       answer_text, answer_choice, is_correct, awarded, time_spent_ms
		FROM answers
		WHERE room_code = $1
		ORDER BY round_no, player_name
	`, code)
	if err != nil {
		return nil, fmt.Errorf("querying answers: %w", err)
	}
	defer rows.Close()

	answers := []AnswerRow{}
	for rows.Next() {
		var a AnswerRow
		var text sql.NullString
		if err := rows.Scan(&a.Round, &a.QuestionID, &a.Category, &a.PlayerID, &a.PlayerName,
			&text, &a.Choice, &a.IsCorrect, &a.Awarded, &a.TimeMs); err != nil {
			return nil, fmt.Errorf("scanning answer: %w", err)
		}
		a.Text = text.String
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating answers: %w", err)
	}
	return answers, nil
}

// PlayerAnswers returns one player's answer history in a room, ordered by
// round.
func (q *Queries) PlayerAnswers(code, playerID string) ([]AnswerRow, error) {
	rows, err := q.db.Query(`
		SELECT round_no, question_id, category, player_id, player_name,
		       answer_text, answer_choice, is_correct, awarded, time_spent_ms
		FROM answers
		WHERE room_code = $1 AND player_id = $2
		ORDER BY round_no
	`, code, playerID)
	if err != nil {
		return nil, fmt.Errorf("querying player answers: %w", err)
	}
	defer rows.Close()

	answers := []AnswerRow{}
	for rows.Next() {
		var a AnswerRow
		var text sql.NullString
		if err := rows.Scan(&a.Round, &a.QuestionID, &a.Category, &a.PlayerID, &a.PlayerName,
			&text, &a.Choice, &a.IsCorrect, &a.Awarded, &a.TimeMs); err != nil {
			return nil, fmt.Errorf("scanning player answer: %w", err)
		}
		a.Text = text.String
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating player answers: %w", err)
	}
	return answers, nil
}
