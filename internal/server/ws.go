package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"trivianight/internal/events"
	"trivianight/internal/metrics"
	"trivianight/internal/questions"
	"trivianight/internal/rooms"
	"trivianight/internal/wshub"
)

const maxNameLen = 32

// handleWS owns one client connection: a write pump drains the send
// channel while this goroutine reads and dispatches inbound messages until
// the connection drops.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("[WS] Accept error: %v\n", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	client := &wshub.Client{
		Conn: conn,
		Send: make(chan []byte, 32),
	}
	go client.WritePump(ctx)
	defer s.cleanupClient(client)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var msg events.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		s.dispatch(client, msg)
	}
}

func (s *Server) dispatch(client *wshub.Client, msg events.ClientMessage) {
	switch msg.Type {
	case events.MsgCreateRoom:
		s.handleCreateRoom(client, msg)
	case events.MsgAttach:
		s.handleAttach(client, msg)
	case events.MsgJoin:
		s.handleJoin(client, msg)
	case events.MsgStart:
		s.handleStart(client, msg)
	case events.MsgAnswer:
		s.handleAnswer(client, msg)
	case events.MsgEnd:
		s.handleEnd(client, msg)
	}
}

func (s *Server) sendError(client *wshub.Client, message string) {
	s.Hub.Send(client, events.Error{Type: "error", Message: message})
}

func (s *Server) handleCreateRoom(client *wshub.Client, msg events.ClientMessage) {
	rounds := msg.Rounds
	if rounds <= 0 {
		rounds = s.Cfg.DefaultRounds
	}
	filter := msg.FilterMode
	if !questions.ValidFilter(filter) {
		filter = questions.FilterAll
	}

	room, err := s.Rooms.Create(strings.ToUpper(msg.PreferredCode), rounds, filter)
	if err != nil {
		log.Printf("[WS] CreateRoom error: %v\n", err)
		s.sendError(client, "failed to create room")
		return
	}

	client.ID = uuid.New().String()
	client.Role = wshub.RoleAdmin
	client.Room = room.Code
	s.Hub.SetAdmin(room.Code, client)
	metrics.RoomsCreated.Inc()

	if s.DB != nil {
		if err := s.DB.UpsertRoom(room.Code, room.Rounds, string(room.Status())); err != nil {
			log.Printf("[DB] UpsertRoom error: %v\n", err)
		}
	}

	s.Hub.Send(client, events.RoomCreated{
		Type:       "room_created",
		RoomCode:   room.Code,
		Rounds:     room.Rounds,
		FilterMode: room.Filter,
	})
}

func (s *Server) handleAttach(client *wshub.Client, msg events.ClientMessage) {
	code := strings.ToUpper(msg.RoomCode)
	room := s.Rooms.Get(code)
	if room == nil {
		s.sendError(client, "room not found")
		return
	}

	client.ID = uuid.New().String()
	client.Role = wshub.RoleAdmin
	client.Room = code
	s.Hub.SetAdmin(code, client)

	s.Hub.Send(client, events.RoomAttached{
		Type:       "room_attached",
		RoomCode:   code,
		Players:    room.Players.Snapshot(),
		Status:     string(room.Status()),
		FilterMode: room.Filter,
	})
}

func (s *Server) handleJoin(client *wshub.Client, msg events.ClientMessage) {
	code := strings.ToUpper(msg.RoomCode)
	room := s.Rooms.Get(code)
	if room == nil {
		s.sendError(client, "room not found")
		return
	}
	if room.Status() != rooms.StatusLobby {
		s.sendError(client, "game already in progress")
		return
	}
	if room.Players.Len() >= s.Cfg.MaxPlayers {
		s.sendError(client, "room is full")
		return
	}

	name := strings.TrimSpace(msg.PlayerName)
	if name == "" {
		name = "Player"
	}
	if runes := []rune(name); len(runes) > maxNameLen {
		name = string(runes[:maxNameLen])
	}

	playerID := msg.PlayerID
	if playerID == "" {
		playerID = uuid.New().String()
	}

	room.Players.Add(playerID, name)
	room.Touch()

	client.ID = playerID
	client.Role = wshub.RolePlayer
	client.Room = code
	s.Hub.Register(client)

	if s.DB != nil {
		if err := s.DB.UpsertPlayer(code, playerID, name, 0); err != nil {
			log.Printf("[DB] UpsertPlayer error: %v\n", err)
		}
	}

	s.Hub.Send(client, events.Joined{
		Type:     "joined",
		RoomCode: code,
		PlayerID: playerID,
		Players:  room.Players.Snapshot(),
	})
	s.Hub.Broadcast(code, events.Roster{Type: "players", Players: room.Players.Snapshot()})
}

func (s *Server) handleStart(client *wshub.Client, msg events.ClientMessage) {
	code := strings.ToUpper(msg.RoomCode)
	room := s.Rooms.Get(code)
	if room == nil || !s.Hub.IsAdmin(code, client) {
		s.sendError(client, "room not found or not authorized")
		return
	}
	if room.Players.Len() == 0 {
		s.sendError(client, "no players in room")
		return
	}
	if !s.Engine.StartGame(room) {
		s.sendError(client, "game already started")
	}
}

func (s *Server) handleAnswer(client *wshub.Client, msg events.ClientMessage) {
	room := s.Rooms.Get(strings.ToUpper(msg.RoomCode))
	if room == nil {
		return
	}
	s.Engine.SubmitAnswer(room, msg.PlayerID, msg.Text, msg.ChoiceValue())
}

func (s *Server) handleEnd(client *wshub.Client, msg events.ClientMessage) {
	code := strings.ToUpper(msg.RoomCode)
	room := s.Rooms.Get(code)
	if room == nil || !s.Hub.IsAdmin(code, client) {
		return
	}
	s.Engine.EndGame(room)
}

// cleanupClient runs when a connection drops: the client leaves the
// registry, and a player additionally leaves the room roster. Scores and
// answer history already persisted are untouched.
func (s *Server) cleanupClient(client *wshub.Client) {
	if client.Room == "" {
		return
	}
	s.Hub.Unregister(client)

	if client.Role != wshub.RolePlayer {
		return
	}
	// A reconnect may already have registered a newer connection for this
	// player; only evict the player when no live connection remains.
	if s.Hub.HasPlayer(client.Room, client.ID) {
		return
	}
	room := s.Rooms.Get(client.Room)
	if room == nil {
		return
	}
	if room.Players.Remove(client.ID) {
		s.Hub.Broadcast(client.Room, events.Roster{Type: "players", Players: room.Players.Snapshot()})
	}
}
