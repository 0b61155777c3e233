package players

import (
	"sort"
	"sync"

	"trivianight/internal/events"
)

// Player is one participant in a room. Answered/Text/Choice/TimeMs form the
// per-round answer slot, reset at the start of every round.
type Player struct {
	ID       string
	Name     string
	Score    int
	Answered bool
	Text     string
	Choice   *int
	TimeMs   int
}

// Store holds the players of a single room. A Store is owned by exactly one
// room for its lifetime.
type Store struct {
	mu      sync.Mutex
	players map[string]*Player
}

func NewStore() *Store {
	return &Store{
		players: make(map[string]*Player),
	}
}

// Add registers a player, replacing any previous entry with the same id.
func (s *Store) Add(id, name string) *Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	player := &Player{ID: id, Name: name}
	s.players[id] = player
	return player
}

func (s *Store) Get(id string) *Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players[id]
}

func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[id]; !ok {
		return false
	}
	delete(s.players, id)
	return true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// List returns a copy of every player, ordered by name for stable output.
func (s *Store) List() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		list = append(list, *p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// Snapshot returns the roster as broadcast to clients, ranked by score.
func (s *Store) Snapshot() []events.PlayerScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make([]events.PlayerScore, 0, len(s.players))
	for _, p := range s.players {
		snap = append(snap, events.PlayerScore{PlayerID: p.ID, Name: p.Name, Score: p.Score})
	}
	sort.Slice(snap, func(i, j int) bool {
		if snap[i].Score != snap[j].Score {
			return snap[i].Score > snap[j].Score
		}
		return snap[i].Name < snap[j].Name
	})
	return snap
}

// ResetRound clears every player's answer slot.
func (s *Store) ResetRound() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		p.Answered = false
		p.Text = ""
		p.Choice = nil
		p.TimeMs = 0
	}
}

// RecordAnswer fills a player's answer slot. It reports false for unknown
// players and for players who already answered this round, so a slot
// transitions to answered at most once per round.
func (s *Store) RecordAnswer(id, text string, choice *int, timeMs int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok || p.Answered {
		return false
	}
	p.Text = text
	p.Choice = choice
	p.TimeMs = timeMs
	p.Answered = true
	return true
}

// AllAnswered reports whether every player has answered. An empty store is
// never "all answered".
func (s *Store) AllAnswered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.players) == 0 {
		return false
	}
	for _, p := range s.players {
		if !p.Answered {
			return false
		}
	}
	return true
}

// AddScore accumulates points into a player's running score and returns the
// new total.
func (s *Store) AddScore(id string, points int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[id]; ok {
		p.Score += points
		return p.Score
	}
	return 0
}
