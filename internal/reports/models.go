package reports

// PlayerRow is one ranked roster entry in a room report.
type PlayerRow struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// AnswerRow is one recorded submission in a room report.
type AnswerRow struct {
	Round      int    `json:"round"`
	QuestionID string `json:"questionId"`
	Category   string `json:"category"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
	Choice     *int   `json:"choice"`
	IsCorrect  bool   `json:"isCorrect"`
	Awarded    int    `json:"awarded"`
	TimeMs     int    `json:"timeMs"`
}

// RoomResults aggregates everything recorded for one room: metadata, the
// ranked player list and the full answer history.
type RoomResults struct {
	RoomCode string      `json:"roomCode"`
	Rounds   int         `json:"rounds"`
	Status   string      `json:"status"`
	Players  []PlayerRow `json:"players"`
	Answers  []AnswerRow `json:"answers"`
}
