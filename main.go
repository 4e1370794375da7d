package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/cors"

	"github.com/jlmarquez1986/Neocare/database"
	"github.com/jlmarquez1986/Neocare/handlers"
	"github.com/jlmarquez1986/Neocare/services"
)

func main() {
	// Load environment variables from .env file
	if err := services.LoadEnv(".env"); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize database
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./kanban.db"
	}
	db, err := database.InitDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize services
	authService := services.NewAuthService()
	store := database.NewStore(db)

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, store)
	boardHandler := handlers.NewBoardHandler(store)
	listHandler := handlers.NewListHandler(store, hub)
	cardHandler := handlers.NewCardHandler(store, hub)
	timesheetHandler := handlers.NewTimesheetHandler(store)
	reportHandler := handlers.NewReportHandler(store)
	wsHandler := handlers.NewWSHandler(store, hub)
	authMiddleware := handlers.NewAuthMiddleware(authService)

	// Setup router
	r := mux.NewRouter()

	// Auth routes
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/verify", authHandler.VerifyToken).Methods("GET")

	// Health check
	r.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK"}`))
	}).Methods("GET")

	// Protected routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Auth)

	// Boards
	api.HandleFunc("/boards", boardHandler.List).Methods("GET")
	api.HandleFunc("/boards", boardHandler.Create).Methods("POST")
	api.HandleFunc("/boards/{id:[0-9]+}", boardHandler.Update).Methods("PUT")
	api.HandleFunc("/boards/{id:[0-9]+}", boardHandler.Delete).Methods("DELETE")

	// Lists
	api.HandleFunc("/lists/by-board/{boardID:[0-9]+}", listHandler.ByBoard).Methods("GET")
	api.HandleFunc("/lists", listHandler.Create).Methods("POST")
	api.HandleFunc("/lists/{id:[0-9]+}", listHandler.Update).Methods("PUT")
	api.HandleFunc("/lists/{id:[0-9]+}", listHandler.Delete).Methods("DELETE")

	// Cards (move included)
	api.HandleFunc("/cards/by-list/{listID:[0-9]+}", cardHandler.ByList).Methods("GET")
	api.HandleFunc("/cards", cardHandler.ByBoard).Methods("GET")
	api.HandleFunc("/cards", cardHandler.Create).Methods("POST")
	api.HandleFunc("/cards/search", cardHandler.Search).Methods("GET")
	api.HandleFunc("/cards/{id:[0-9]+}", cardHandler.Get).Methods("GET")
	api.HandleFunc("/cards/{id:[0-9]+}", cardHandler.Update).Methods("PUT")
	api.HandleFunc("/cards/{id:[0-9]+}", cardHandler.Delete).Methods("DELETE")
	api.HandleFunc("/cards/{id:[0-9]+}/move", cardHandler.Move).Methods("PATCH")

	// Labels and subtasks
	api.HandleFunc("/cards/{id:[0-9]+}/labels", cardHandler.Labels).Methods("GET")
	api.HandleFunc("/cards/{id:[0-9]+}/labels", cardHandler.CreateLabel).Methods("POST")
	api.HandleFunc("/cards/labels/{labelID:[0-9]+}", cardHandler.DeleteLabel).Methods("DELETE")
	api.HandleFunc("/cards/{id:[0-9]+}/subtasks", cardHandler.Subtasks).Methods("GET")
	api.HandleFunc("/cards/{id:[0-9]+}/subtasks", cardHandler.CreateSubtask).Methods("POST")
	api.HandleFunc("/cards/subtasks/{subtaskID:[0-9]+}", cardHandler.UpdateSubtask).Methods("PATCH")
	api.HandleFunc("/cards/subtasks/{subtaskID:[0-9]+}", cardHandler.DeleteSubtask).Methods("DELETE")

	// Timesheets
	api.HandleFunc("/timesheets", timesheetHandler.Create).Methods("POST")
	api.HandleFunc("/timesheets/me", timesheetHandler.Mine).Methods("GET")
	api.HandleFunc("/timesheets/{id:[0-9]+}", timesheetHandler.Delete).Methods("DELETE")

	// Weekly reports
	api.HandleFunc("/report/{boardID:[0-9]+}/summary", reportHandler.Summary).Methods("GET")
	api.HandleFunc("/report/{boardID:[0-9]+}/hours-by-user", reportHandler.HoursByUser).Methods("GET")
	api.HandleFunc("/report/{boardID:[0-9]+}/hours-by-card", reportHandler.HoursByCard).Methods("GET")
	api.HandleFunc("/report/{boardID:[0-9]+}/weeks-available", reportHandler.WeeksAvailable).Methods("GET")

	// WebSocket route for real-time board updates
	api.HandleFunc("/ws", wsHandler.HandleWebSocket)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // In production, change to your domain
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(server.ListenAndServe())
}
