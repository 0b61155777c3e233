// Package game drives a room's round loop: question selection, the timer
// versus all-answered race, scoring and the reveal broadcast.
package game

import (
	"log"
	"math/rand"
	"time"

	"trivianight/internal/answers"
	"trivianight/internal/db"
	"trivianight/internal/events"
	"trivianight/internal/metrics"
	"trivianight/internal/questions"
	"trivianight/internal/rooms"
)

// Recorder is the durable-storage gateway the engine writes through. All
// writes are best-effort; failures are logged and never abort a round.
type Recorder interface {
	UpsertRoom(code string, rounds int, status string) error
	UpsertPlayer(roomCode, playerID, name string, score int) error
	AddAnswer(rec db.AnswerRecord) error
}

// Broadcaster fans one event out to a room's admin and players.
type Broadcaster interface {
	Broadcast(roomCode string, payload any)
}

// How often the round loop re-checks whether the current question cleared
// or the room was ended externally.
const pollInterval = 100 * time.Millisecond

// Default answer window when a question carries no preferred time limit.
const (
	minTimeLimit = 40
	maxTimeLimit = 60
)

const maxAnswerLen = 300

type Engine struct {
	Bank *questions.Bank
	Hub  Broadcaster
	Rec  Recorder // nil if no database configured
}

func NewEngine(bank *questions.Bank, hub Broadcaster, rec Recorder) *Engine {
	return &Engine{Bank: bank, Hub: hub, Rec: rec}
}

// StartGame moves a room from lobby to running and launches its round
// loop. It reports false when the room already left the lobby.
func (e *Engine) StartGame(room *rooms.Room) bool {
	if !room.Start() {
		return false
	}
	e.persistStatus(room)
	e.Hub.Broadcast(room.Code, events.GameStarted{Type: "game_started", Rounds: room.Rounds})
	go e.RunRounds(room)
	return true
}

// EndGame forces a room into its terminal state without resolving a
// dangling round, then broadcasts the final scores.
func (e *Engine) EndGame(room *rooms.Room) {
	if !room.Finish() {
		return
	}
	e.persistStatus(room)
	e.Hub.Broadcast(room.Code, events.Final{Type: "final", Scores: room.Players.Snapshot()})
}

// RunRounds executes the room's full sequence of rounds. It exits early,
// within one poll interval, when the room is ended externally.
func (e *Engine) RunRounds(room *rooms.Room) {
	room.ResetSession()

	filter := room.Filter
	hasCard := e.Bank.HasCard(filter)

	for r := 1; r <= room.Rounds; r++ {
		if room.Status() != rooms.StatusRunning {
			break
		}

		// In mixed mode every third round asks for a card question,
		// provided any card question exists under the filter at all; an
		// exhausted card pool silently falls back to relaxed selection
		// inside Pick.
		desired := questions.ModeBase
		switch {
		case filter == questions.FilterCardsOnly:
			desired = questions.ModeCard
		case filter == questions.FilterNoCards:
			desired = questions.ModeBase
		case hasCard && r%3 == 0:
			desired = questions.ModeCard
		}

		q := e.Bank.Pick(room.UsedIDs(), desired, filter)

		limit := q.TimeRef
		if limit <= 0 {
			limit = minTimeLimit + rand.Intn(maxTimeLimit-minTimeLimit+1)
		}

		// Slots are cleared before the question event goes out, so no
		// stale answer can leak into the new round.
		room.Players.ResetRound()
		room.OpenQuestion(r, q, limit, func() { e.FinishRound(room) })

		open := events.QuestionOpened{
			Type:        "question",
			Round:       r,
			TotalRounds: room.Rounds,
			Category:    q.Category,
			QuestionID:  q.ID,
			TimeLimit:   limit,
			QType:       q.Type,
			Prompt:      q.Prompt,
			Mode:        q.Mode,
			Subtype:     q.Subtype,
		}
		if q.Type == questions.TypeMCQ {
			open.Options = q.Options
		}
		e.Hub.Broadcast(room.Code, open)

		for room.QuestionOpen() && room.Status() == rooms.StatusRunning {
			time.Sleep(pollInterval)
		}
	}

	if room.Finish() {
		e.persistStatus(room)
	}
	e.Hub.Broadcast(room.Code, events.Final{Type: "final", Scores: room.Players.Snapshot()})
}

// SubmitAnswer records a player's answer while the window is open. Late,
// duplicate and out-of-window submissions are ignored; they are expected
// races, not errors. Filling the last open slot resolves the round early
// and cancels the pending timer.
func (e *Engine) SubmitAnswer(room *rooms.Room, playerID, text string, choice *int) {
	q, deadline, limit, ok := room.OpenWindow()
	if !ok {
		return
	}

	var ansText string
	var ansChoice *int
	if q.Type == questions.TypeMCQ {
		ansChoice = choice
	} else {
		ansText = truncate(text, maxAnswerLen)
	}

	opened := deadline.Add(-time.Duration(limit) * time.Second)
	spent := int(time.Since(opened).Milliseconds())
	if spent < 0 {
		spent = 0
	}

	if !room.Players.RecordAnswer(playerID, ansText, ansChoice, spent) {
		return
	}
	metrics.AnswersSubmitted.Inc()

	if room.Players.AllAnswered() {
		e.FinishRound(room)
	}
}

// FinishRound resolves the current round: it evaluates every player's
// answer, awards points, persists scores and answer records, and finally
// broadcasts the reveal. BeginResolution makes the operation idempotent
// (the timer and an early completion may both trigger it) and keeps the
// round loop parked until the reveal is out, so the next question can
// never reset answer slots mid-resolution.
func (e *Engine) FinishRound(room *rooms.Room) {
	q, round, ok := room.BeginResolution()
	if !ok {
		return
	}

	results := make([]events.PlayerResult, 0, room.Players.Len())
	for _, p := range room.Players.List() {
		correct := answers.Evaluate(q, p.Text, p.Choice)
		awarded := 0
		if correct {
			awarded = 1
		}
		score := room.Players.AddScore(p.ID, awarded)

		if e.Rec != nil {
			if err := e.Rec.UpsertPlayer(room.Code, p.ID, p.Name, score); err != nil {
				log.Printf("[DB] UpsertPlayer error: %v\n", err)
			}
			if err := e.Rec.AddAnswer(db.AnswerRecord{
				RoomCode:   room.Code,
				Round:      round,
				QuestionID: q.ID,
				Category:   q.Category,
				PlayerID:   p.ID,
				PlayerName: p.Name,
				Text:       p.Text,
				Choice:     p.Choice,
				IsCorrect:  correct,
				Awarded:    awarded,
				TimeMs:     p.TimeMs,
			}); err != nil {
				log.Printf("[DB] AddAnswer error: %v\n", err)
			}
		}

		results = append(results, events.PlayerResult{
			PlayerID:  p.ID,
			Name:      p.Name,
			Choice:    p.Choice,
			Text:      p.Text,
			IsCorrect: correct,
			Awarded:   awarded,
			TimeMs:    p.TimeMs,
			Score:     score,
		})
	}

	metrics.RoundsResolved.Inc()
	e.Hub.Broadcast(room.Code, buildReveal(q, round, results, room.Players.Snapshot()))
	room.EndResolution()
}

// buildReveal discloses the correct answer alongside everyone's results:
// the option list plus correct index for mcq, or the accepted texts with
// the first one as canonical for text questions.
func buildReveal(q questions.Question, round int, results []events.PlayerResult, scores []events.PlayerScore) events.Reveal {
	reveal := events.Reveal{
		Type:       "reveal",
		Round:      round,
		QuestionID: q.ID,
		Category:   q.Category,
		QType:      q.Type,
		Prompt:     q.Prompt,
		Mode:       q.Mode,
		Subtype:    q.Subtype,
		Results:    results,
		Scores:     scores,
	}
	if q.Type == questions.TypeMCQ {
		reveal.Options = q.Options
		ci := q.CorrectIndex
		reveal.CorrectIndex = &ci
		if ci >= 0 && ci < len(q.Options) {
			text := q.Options[ci]
			reveal.CorrectText = &text
		}
	} else {
		reveal.Accepted = q.Accept
		text := ""
		if len(q.Accept) > 0 {
			text = q.Accept[0]
		}
		reveal.CorrectText = &text
	}
	return reveal
}

func (e *Engine) persistStatus(room *rooms.Room) {
	if e.Rec == nil {
		return
	}
	if err := e.Rec.UpsertRoom(room.Code, room.Rounds, string(room.Status())); err != nil {
		log.Printf("[DB] UpsertRoom error: %v\n", err)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
