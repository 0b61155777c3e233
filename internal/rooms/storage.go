package rooms

import (
	"fmt"
	"sync"
	"time"
)

// Rooms idle this long are swept. Creation, joins, round starts and round
// resolutions all count as activity, so a game in progress is never
// evicted. Room state is in-memory only; a swept room survives in the
// database but is no longer joinable.
const staleTTL = 2 * time.Hour

// Store is the process-wide registry mapping room codes to live rooms.
type Store struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewStore() *Store {
	s := &Store{
		rooms: make(map[string]*Room),
	}
	go s.sweepStale()
	return s
}

// Create registers a new room. A valid, unclaimed preferred code is used
// as-is; otherwise codes are generated, retried on collision.
func (s *Store) Create(preferred string, rounds int, filter string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ValidCode(preferred) {
		if _, exists := s.rooms[preferred]; !exists {
			room := NewRoom(preferred, rounds, filter)
			s.rooms[preferred] = room
			return room, nil
		}
	}

	// Try up to 10 times to generate a unique code
	for range 10 {
		code, err := GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("generating room code: %w", err)
		}
		if _, exists := s.rooms[code]; exists {
			continue
		}
		room := NewRoom(code, rounds, filter)
		s.rooms[code] = room
		return room, nil
	}
	return nil, fmt.Errorf("failed to generate unique room code after 10 attempts")
}

func (s *Store) Get(code string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[code]
}

func (s *Store) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.sweepOnce(time.Now())
	}
}

func (s *Store) sweepOnce(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, room := range s.rooms {
		if room.idleFor(now) > staleTTL {
			delete(s.rooms, code)
		}
	}
}
