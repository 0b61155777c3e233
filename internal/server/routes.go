package server

import (
	"fmt"
	"log"
	"net/http"

	"trivianight/internal/config"
	"trivianight/internal/db"
	"trivianight/internal/game"
	"trivianight/internal/metrics"
	"trivianight/internal/questions"
	"trivianight/internal/reports"
	"trivianight/internal/rooms"
	"trivianight/internal/wshub"
)

type Server struct {
	Cfg       config.Config
	Rooms     *rooms.Store
	Hub       *wshub.Hub
	Bank      *questions.Bank
	Engine    *game.Engine
	DB        *db.DB           // nil if no database configured
	Reports   *reports.Queries // nil if no database configured
	StaticDir string
}

func Run() error {
	cfg := config.Load()

	bank := questions.NewBank(cfg.QuestionsPath)
	if err := bank.Load(); err != nil {
		log.Printf("[Bank] %v (starting with an empty bank)\n", err)
	} else {
		total, _ := bank.Counts()
		log.Printf("[Bank] Loaded %d questions from %s\n", total, cfg.QuestionsPath)
	}

	roomStore := rooms.NewStore()
	hub := wshub.NewHub()
	metrics.RegisterActiveRooms(roomStore.Count)

	srv := &Server{
		Cfg:       cfg,
		Rooms:     roomStore,
		Hub:       hub,
		Bank:      bank,
		StaticDir: "static",
	}

	// Optional database connection
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			srv.DB = database
			srv.Reports = reports.NewQueries(database)
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] TRIVIA_DATABASE_URL not set, running without database")
	}

	var rec game.Recorder
	if srv.DB != nil {
		rec = srv.DB
	}
	srv.Engine = game.NewEngine(bank, hub, rec)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", srv.handleIndex)
	mux.HandleFunc("GET /admin", srv.handleAdmin)
	mux.HandleFunc("GET /ws", srv.handleWS)
	mux.HandleFunc("GET /api/questions", srv.handleQuestionCounts)
	mux.HandleFunc("POST /api/questions/reload", srv.handleQuestionsReload)
	mux.HandleFunc("GET /api/room/{code}/results", srv.handleRoomResults)
	mux.HandleFunc("GET /api/room/{code}/qr.png", srv.handleRoomQR)
	mux.HandleFunc("GET /api/export/{code}/room.csv", srv.handleExportRoom)
	mux.HandleFunc("GET /api/export/{code}/player/{playerId}", srv.handleExportPlayer)
	mux.HandleFunc("GET /healthz", srv.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(srv.StaticDir))))

	addr := "0.0.0.0:" + cfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", cfg.Port)
	return http.ListenAndServe(addr, mux)
}
