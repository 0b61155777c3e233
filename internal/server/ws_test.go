package server

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

func dialWS(t *testing.T, ctx context.Context, baseURL string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(baseURL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
}

// readUntil discards events until one of the wanted type arrives. Roster
// updates and similar broadcasts interleave freely, so tests select what
// they assert on.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, wantType string) map[string]any {
	t.Helper()
	for {
		var ev map[string]any
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			t.Fatalf("waiting for %q: %v", wantType, err)
		}
		if ev["type"] == wantType {
			return ev
		}
	}
}

func TestWS_FullGameFlow(t *testing.T) {
	_, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin := dialWS(t, ctx, ts.URL)
	send(t, ctx, admin, map[string]any{"type": "admin_create_room", "rounds": 1})
	created := readUntil(t, ctx, admin, "room_created")
	code, _ := created["roomCode"].(string)
	if len(code) != 4 {
		t.Fatalf("room code = %q, want 4 characters", code)
	}

	player := dialWS(t, ctx, ts.URL)
	send(t, ctx, player, map[string]any{"type": "join", "roomCode": code, "playerName": "Alice"})
	joined := readUntil(t, ctx, player, "joined")
	playerID, _ := joined["playerId"].(string)
	if playerID == "" {
		t.Fatal("joined event carries no playerId")
	}

	roster := readUntil(t, ctx, admin, "players")
	if players, _ := roster["players"].([]any); len(players) != 1 {
		t.Fatalf("roster size = %d, want 1", len(players))
	}

	send(t, ctx, admin, map[string]any{"type": "admin_start", "roomCode": code})
	readUntil(t, ctx, player, "game_started")

	question := readUntil(t, ctx, player, "question")
	if _, hasAnswer := question["correctIndex"]; hasAnswer {
		t.Error("question event leaks the correct answer")
	}

	// Answer whichever question was drawn; the sole player answering
	// resolves the round immediately.
	answer := map[string]any{"type": "answer", "roomCode": code, "playerId": playerID}
	if question["qtype"] == "mcq" {
		answer["choice"] = 1
	} else {
		answer["text"] = "paris"
	}
	send(t, ctx, player, answer)

	reveal := readUntil(t, ctx, player, "reveal")
	results, _ := reveal["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("reveal results = %d, want 1", len(results))
	}
	result, _ := results[0].(map[string]any)
	if correct, _ := result["isCorrect"].(bool); !correct {
		t.Errorf("known-good answer judged incorrect: %+v", result)
	}

	final := readUntil(t, ctx, admin, "final")
	scores, _ := final["scores"].([]any)
	if len(scores) != 1 {
		t.Fatalf("final scores = %d, want 1", len(scores))
	}
	top, _ := scores[0].(map[string]any)
	if score, _ := top["score"].(float64); score != 1 {
		t.Errorf("final score = %v, want 1", top["score"])
	}
}

func TestWS_JoinUnknownRoom(t *testing.T) {
	_, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	player := dialWS(t, ctx, ts.URL)
	send(t, ctx, player, map[string]any{"type": "join", "roomCode": "ZZZZ", "playerName": "Alice"})

	ev := readUntil(t, ctx, player, "error")
	if ev["message"] != "room not found" {
		t.Errorf("error message = %v, want room not found", ev["message"])
	}
}

func TestWS_StartRequiresAdmin(t *testing.T) {
	_, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	admin := dialWS(t, ctx, ts.URL)
	send(t, ctx, admin, map[string]any{"type": "admin_create_room"})
	created := readUntil(t, ctx, admin, "room_created")
	code, _ := created["roomCode"].(string)

	player := dialWS(t, ctx, ts.URL)
	send(t, ctx, player, map[string]any{"type": "join", "roomCode": code, "playerName": "Alice"})
	readUntil(t, ctx, player, "joined")

	send(t, ctx, player, map[string]any{"type": "admin_start", "roomCode": code})
	readUntil(t, ctx, player, "error")
}

func TestWS_JoinAfterStartRejected(t *testing.T) {
	srv, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	admin := dialWS(t, ctx, ts.URL)
	send(t, ctx, admin, map[string]any{"type": "admin_create_room", "rounds": 1})
	created := readUntil(t, ctx, admin, "room_created")
	code, _ := created["roomCode"].(string)

	first := dialWS(t, ctx, ts.URL)
	send(t, ctx, first, map[string]any{"type": "join", "roomCode": code, "playerName": "Alice"})
	readUntil(t, ctx, first, "joined")

	send(t, ctx, admin, map[string]any{"type": "admin_start", "roomCode": code})
	readUntil(t, ctx, admin, "game_started")

	if srv.Rooms.Get(code).Status() != "running" {
		t.Fatal("room not running after start")
	}

	late := dialWS(t, ctx, ts.URL)
	send(t, ctx, late, map[string]any{"type": "join", "roomCode": code, "playerName": "Bob"})
	ev := readUntil(t, ctx, late, "error")
	if ev["message"] != "game already in progress" {
		t.Errorf("error message = %v, want game already in progress", ev["message"])
	}
}

func TestWS_MalformedChoiceStillCountsAnswered(t *testing.T) {
	_, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin := dialWS(t, ctx, ts.URL)
	send(t, ctx, admin, map[string]any{"type": "admin_create_room", "rounds": 1})
	created := readUntil(t, ctx, admin, "room_created")
	code, _ := created["roomCode"].(string)

	player := dialWS(t, ctx, ts.URL)
	send(t, ctx, player, map[string]any{"type": "join", "roomCode": code, "playerName": "Alice"})
	joined := readUntil(t, ctx, player, "joined")
	playerID, _ := joined["playerId"].(string)

	send(t, ctx, admin, map[string]any{"type": "admin_start", "roomCode": code})
	readUntil(t, ctx, player, "question")

	// A junk choice degrades to an unanswered-value submission, but the
	// player still counts as answered: the sole player answering resolves
	// the round well before the timer would.
	send(t, ctx, player, map[string]any{
		"type": "answer", "roomCode": code, "playerId": playerID, "choice": "banana",
	})

	reveal := readUntil(t, ctx, player, "reveal")
	results, _ := reveal["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("reveal results = %d, want 1", len(results))
	}
	result, _ := results[0].(map[string]any)
	if correct, _ := result["isCorrect"].(bool); correct {
		t.Error("junk submission judged correct")
	}
}

func TestWS_DisconnectRemovesPlayer(t *testing.T) {
	_, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	admin := dialWS(t, ctx, ts.URL)
	send(t, ctx, admin, map[string]any{"type": "admin_create_room"})
	created := readUntil(t, ctx, admin, "room_created")
	code, _ := created["roomCode"].(string)

	player := dialWS(t, ctx, ts.URL)
	send(t, ctx, player, map[string]any{"type": "join", "roomCode": code, "playerName": "Alice"})
	readUntil(t, ctx, player, "joined")
	readUntil(t, ctx, admin, "players")

	player.Close(websocket.StatusNormalClosure, "")

	// The departure is broadcast as an empty roster
	for {
		roster := readUntil(t, ctx, admin, "players")
		players, _ := roster["players"].([]any)
		if len(players) == 0 {
			return
		}
	}
}
