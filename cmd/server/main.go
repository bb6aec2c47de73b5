package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"parkwise/internal/api"
	"parkwise/internal/repository"
	"parkwise/internal/service"
)

func main() {
	godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	repo, err := openStore()
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	notifier := service.NewNotifyService()
	userSvc := service.NewUserService(repo, jwtSecret)
	vehicleSvc := service.NewVehicleService(repo)
	slotSvc := service.NewSlotService(repo)
	requestSvc := service.NewRequestService(repo, notifier)
	allocationSvc := service.NewAllocationService(repo, notifier)
	jobSvc := service.NewJobService(repo)

	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		if err := userSvc.EnsureAdmin(context.Background(), email, os.Getenv("ADMIN_PASSWORD")); err != nil {
			log.Fatalf("Failed to ensure admin user: %v", err)
		}
	}

	c := cron.New()
	if _, err := c.AddFunc("@every 5m", func() {
		if err := jobSvc.ReleaseExpired(context.Background()); err != nil {
			log.Printf("Cron Job: release expired bindings failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule expiry job: %v", err)
	}
	c.Start()
	defer c.Stop()

	r := api.NewRouter(api.RouterDeps{
		JWTSecret:  jwtSecret,
		Users:      userSvc,
		Vehicles:   vehicleSvc,
		Slots:      slotSvc,
		Requests:   requestSvc,
		Allocation: allocationSvc,
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{corsOrigin()}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}

// openStore connects to Postgres when DATABASE_URL is set and falls back
// to the in-memory store otherwise, which is enough for local development.
func openStore() (repository.Store, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Println("DATABASE_URL not set, using in-memory store")
		return repository.NewMemoryStore(), nil
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if err := repository.EnsureSchema(db); err != nil {
		return nil, err
	}
	return repository.NewPostgresStore(db), nil
}

func corsOrigin() string {
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		return origin
	}
	return "*"
}
