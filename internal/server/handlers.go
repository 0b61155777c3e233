package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] Encode error: %v\n", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.StaticDir, "index.html"))
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.StaticDir, "admin.html"))
}

func (s *Server) handleQuestionCounts(w http.ResponseWriter, r *http.Request) {
	total, perCategory := s.Bank.Counts()
	writeJSON(w, http.StatusOK, map[string]any{
		"total":      total,
		"categories": perCategory,
	})
}

func (s *Server) handleQuestionsReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Bank.Load(); err != nil {
		log.Printf("[Bank] Reload failed: %v\n", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	total, perCategory := s.Bank.Counts()
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"total":      total,
		"categories": perCategory,
	})
}

// roomKnown reports whether a code refers to a live room or one already
// persisted by an earlier session.
func (s *Server) roomKnown(code string) bool {
	if s.Rooms.Get(code) != nil {
		return true
	}
	if s.DB == nil {
		return false
	}
	exists, err := s.DB.RoomExists(code)
	if err != nil {
		log.Printf("[DB] RoomExists error: %v\n", err)
		return false
	}
	return exists
}

func (s *Server) handleRoomResults(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	if !s.roomKnown(code) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		return
	}
	if s.Reports == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no database configured"})
		return
	}
	results, err := s.Reports.RoomResults(code)
	if err != nil {
		log.Printf("[DB] RoomResults error: %v\n", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// handleRoomQR renders a QR code for the player join link of a room.
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	if s.Rooms.Get(code) == nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	png, err := qrcode.Encode(s.Cfg.BaseURL+"/?room="+code, qrcode.Medium, 256)
	if err != nil {
		log.Printf("[HTTP] QR encode error: %v\n", err)
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		log.Println(err)
	}
}

// csvField strips commas so rows stay well-formed without quoting,
// matching the export format consumers already parse.
func csvField(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		s = ""
	case string:
		s = t
	case *int:
		if t == nil {
			s = ""
		} else {
			s = fmt.Sprintf("%d", *t)
		}
	default:
		s = fmt.Sprintf("%v", t)
	}
	return strings.ReplaceAll(s, ",", " ")
}

func (s *Server) handleExportRoom(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	if s.Reports == nil {
		http.Error(w, "no database configured", http.StatusServiceUnavailable)
		return
	}
	results, err := s.Reports.RoomResults(code)
	if err != nil {
		log.Printf("[DB] RoomResults error: %v\n", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}

	var b strings.Builder
	b.WriteString("playerId,name,score\n")
	for _, p := range results.Players {
		fmt.Fprintf(&b, "%s,%s,%d\n", csvField(p.PlayerID), csvField(p.Name), p.Score)
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", code+"_summary.csv"))
	if _, err := w.Write([]byte(b.String())); err != nil {
		log.Println(err)
	}
}

func (s *Server) handleExportPlayer(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	// ServeMux wildcards must span a whole segment, so the pattern cannot
	// encode the ".csv" suffix; strip it here to recover the player ID.
	playerID := strings.TrimSuffix(r.PathValue("playerId"), ".csv")
	if s.Reports == nil {
		http.Error(w, "no database configured", http.StatusServiceUnavailable)
		return
	}
	answers, err := s.Reports.PlayerAnswers(code, playerID)
	if err != nil {
		log.Printf("[DB] PlayerAnswers error: %v\n", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	if len(answers) == 0 {
		http.Error(w, "no data", http.StatusNotFound)
		return
	}

	var b strings.Builder
	b.WriteString("round,questionId,category,answerText,answerChoice,isCorrect,awarded,timeMs\n")
	for _, a := range answers {
		fmt.Fprintf(&b, "%d,%s,%s,%s,%s,%t,%d,%d\n",
			a.Round, csvField(a.QuestionID), csvField(a.Category),
			csvField(a.Text), csvField(a.Choice), a.IsCorrect, a.Awarded, a.TimeMs)
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", code+"_"+playerID+".csv"))
	if _, err := w.Write([]byte(b.String())); err != nil {
		log.Println(err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			status = "db_error"
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"%s","error":"%s"}`, status, err.Error())
			return
		}
	}
	fmt.Fprintf(w, `{"status":"%s"}`, status)
}
