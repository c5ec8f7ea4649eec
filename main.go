package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/example/microlearn-api/ai"
	"github.com/example/microlearn-api/config"
	"github.com/example/microlearn-api/handlers"
	"github.com/example/microlearn-api/middleware"
	"github.com/example/microlearn-api/pipeline"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	cfg := config.Load()

	db, err := config.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	generator := ai.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	DBHandler := &handlers.DBHandler{
		DB:            db,
		SessionSecret: cfg.SessionSecret,
		Pipeline:      &pipeline.Processor{DB: db, Generator: generator},
	}

	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireSession(db, cfg.SessionSecret, h)
	}

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/register", DBHandler.Register)
	mux.HandleFunc("POST /api/auth/login", DBHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", DBHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", authed(DBHandler.Me))

	// Documents
	mux.HandleFunc("POST /api/upload", authed(DBHandler.Upload))

	// Notes and quizzes
	mux.HandleFunc("GET /api/notes", authed(DBHandler.GetNotes))
	mux.HandleFunc("GET /api/notes/{id}", authed(DBHandler.GetNoteByID))
	mux.HandleFunc("GET /api/notes/{id}/quiz", authed(DBHandler.GetQuizForNote))

	// Progress
	mux.HandleFunc("POST /api/progress", authed(DBHandler.SaveProgress))
	mux.HandleFunc("GET /api/progress", authed(DBHandler.GetProgress))

	// JSON 404 for everything else
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found"}`))
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(requestLogger(mux))

	addr := "0.0.0.0:" + cfg.Port
	slog.Info("server starting", "addr", addr)
	if err := http.ListenAndServe(addr, corsHandler); err != nil {
		log.Fatal(err)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Info("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}
