package events

import "encoding/json"

// ClientMessage is the JSON structure received from clients. Choice is
// kept raw so a malformed value degrades to "no choice" instead of
// rejecting the whole message.
type ClientMessage struct {
	Type          string          `json:"type"`
	RoomCode      string          `json:"roomCode,omitempty"`
	PreferredCode string          `json:"preferredCode,omitempty"`
	Rounds        int             `json:"rounds,omitempty"`
	FilterMode    string          `json:"taskFilterMode,omitempty"`
	PlayerName    string          `json:"playerName,omitempty"`
	PlayerID      string          `json:"playerId,omitempty"`
	Text          string          `json:"text,omitempty"`
	Choice        json.RawMessage `json:"choice,omitempty"`
}

// ChoiceValue returns the submitted option index, or nil when the choice
// is absent, null, or not an integer.
func (m ClientMessage) ChoiceValue() *int {
	if len(m.Choice) == 0 || string(m.Choice) == "null" {
		return nil
	}
	var n int
	if err := json.Unmarshal(m.Choice, &n); err != nil {
		return nil
	}
	return &n
}

// Inbound message types.
const (
	MsgCreateRoom = "admin_create_room"
	MsgAttach     = "admin_attach"
	MsgJoin       = "join"
	MsgStart      = "admin_start"
	MsgAnswer     = "answer"
	MsgEnd        = "admin_end"
)

// PlayerScore is a roster entry carried by several outbound events.
type PlayerScore struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

type RoomCreated struct {
	Type       string `json:"type"` // "room_created"
	RoomCode   string `json:"roomCode"`
	Rounds     int    `json:"rounds"`
	FilterMode string `json:"taskFilterMode"`
}

type RoomAttached struct {
	Type       string        `json:"type"` // "room_attached"
	RoomCode   string        `json:"roomCode"`
	Players    []PlayerScore `json:"players"`
	Status     string        `json:"status"`
	FilterMode string        `json:"taskFilterMode"`
}

type Joined struct {
	Type     string        `json:"type"` // "joined"
	RoomCode string        `json:"roomCode"`
	PlayerID string        `json:"playerId"`
	Players  []PlayerScore `json:"players"`
}

type Roster struct {
	Type    string        `json:"type"` // "players"
	Players []PlayerScore `json:"players"`
}

type GameStarted struct {
	Type   string `json:"type"` // "game_started"
	Rounds int    `json:"rounds"`
}

// QuestionOpened announces a new round. It never carries the correct answer.
type QuestionOpened struct {
	Type        string   `json:"type"` // "question"
	Round       int      `json:"round"`
	TotalRounds int      `json:"totalRounds"`
	Category    string   `json:"category"`
	QuestionID  string   `json:"questionId"`
	TimeLimit   int      `json:"timeLimit"`
	QType       string   `json:"qtype"`
	Prompt      string   `json:"prompt"`
	Mode        string   `json:"mode"`
	Subtype     string   `json:"subtype,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// PlayerResult is one player's outcome within a Reveal.
type PlayerResult struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	Choice    *int   `json:"choice"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Awarded   int    `json:"awarded"`
	TimeMs    int    `json:"timeMs"`
	Score     int    `json:"score"`
}

// Reveal discloses the correct answer and every player's result after a
// round closes.
type Reveal struct {
	Type         string         `json:"type"` // "reveal"
	Round        int            `json:"round"`
	QuestionID   string         `json:"questionId"`
	Category     string         `json:"category"`
	QType        string         `json:"qtype"`
	Prompt       string         `json:"prompt"`
	Mode         string         `json:"mode"`
	Subtype      string         `json:"subtype,omitempty"`
	Results      []PlayerResult `json:"results"`
	Scores       []PlayerScore  `json:"scores"`
	Options      []string       `json:"options,omitempty"`
	CorrectIndex *int           `json:"correctIndex,omitempty"`
	Accepted     []string       `json:"accepted,omitempty"`
	CorrectText  *string        `json:"correctText,omitempty"`
}

type Final struct {
	Type   string        `json:"type"` // "final"
	Scores []PlayerScore `json:"scores"`
}

type Error struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}
