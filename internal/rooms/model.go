package rooms

import (
	"sync"
	"time"

	"trivianight/internal/players"
	"trivianight/internal/questions"
)

type Status string

const (
	StatusLobby    Status = "lobby"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
)

// Room is one independent game session. All mutable round state is guarded
// by mu; the scheduler and the message handlers for this room are the only
// writers.
type Room struct {
	Code      string
	Rounds    int
	Filter    string
	Players   *players.Store
	CreatedAt time.Time

	mu           sync.Mutex
	status       Status
	currentRound int
	current      *questions.Question
	resolving    bool
	usedIDs      map[string]bool
	deadline     time.Time
	timeLimit    int
	timer        *time.Timer
	lastActive   time.Time
}

func NewRoom(code string, rounds int, filter string) *Room {
	now := time.Now()
	return &Room{
		Code:       code,
		Rounds:     rounds,
		Filter:     filter,
		Players:    players.NewStore(),
		CreatedAt:  now,
		status:     StatusLobby,
		usedIDs:    make(map[string]bool),
		lastActive: now,
	}
}

// Touch marks the room active, deferring the stale sweep.
func (r *Room) Touch() {
	r.mu.Lock()
	r.lastActive = time.Now()
	r.mu.Unlock()
}

func (r *Room) idleFor(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return now.Sub(r.lastActive)
}

func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Start moves the room from lobby to running. It reports false when the
// room already left the lobby; the status never moves backward.
func (r *Room) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusLobby {
		return false
	}
	r.status = StatusRunning
	r.lastActive = time.Now()
	return true
}

// Finish moves the room to its terminal state, discarding any open question
// and its pending timer without resolving it. It reports false when the
// room was already finished.
func (r *Room) Finish() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == StatusFinished {
		return false
	}
	r.status = StatusFinished
	r.current = nil
	r.resolving = false
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.lastActive = time.Now()
	return true
}

// ResetSession clears the used-question set for a fresh run of rounds.
func (r *Room) ResetSession() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usedIDs = make(map[string]bool)
}

// UsedIDs returns a copy of the used-question set.
func (r *Room) UsedIDs() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	used := make(map[string]bool, len(r.usedIDs))
	for id := range r.usedIDs {
		used[id] = true
	}
	return used
}

// OpenQuestion arms round number round with q for limit seconds, marking
// the question used and scheduling expire to run when the limit elapses.
func (r *Room) OpenQuestion(round int, q questions.Question, limit int, expire func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currentRound = round
	qq := q
	r.current = &qq
	r.resolving = false
	r.usedIDs[q.ID] = true
	r.timeLimit = limit
	r.deadline = time.Now().Add(time.Duration(limit) * time.Second)
	r.timer = time.AfterFunc(time.Duration(limit)*time.Second, expire)
	r.lastActive = time.Now()
}

// BeginResolution claims the current question for resolution and cancels
// its timer. The ok result is false when no question is open or resolution
// already began, so only the first of the timer/early-completion pair has
// effect. The question stays current until EndResolution, which keeps the
// round loop from advancing while scores are still being written.
func (r *Room) BeginResolution() (questions.Question, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil || r.resolving {
		return questions.Question{}, 0, false
	}
	r.resolving = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	return *r.current, r.currentRound, true
}

// EndResolution clears the resolved question, re-arming the round loop.
func (r *Room) EndResolution() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = nil
	r.resolving = false
	r.lastActive = time.Now()
}

// QuestionOpen reports whether an answer window is currently open.
func (r *Room) QuestionOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil
}

// OpenWindow returns the current question, deadline and time limit when
// the room is running, a question is open and not yet resolving, and the
// deadline has not passed.
func (r *Room) OpenWindow() (questions.Question, time.Time, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusRunning || r.current == nil || r.resolving || time.Now().After(r.deadline) {
		return questions.Question{}, time.Time{}, 0, false
	}
	return *r.current, r.deadline, r.timeLimit, true
}
