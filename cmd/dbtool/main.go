package main

import (
	"aed-dispatch-service/internal/adapters/repositories"
	"aed-dispatch-service/internal/config"
	"aed-dispatch-service/internal/platform/db"
	"database/sql"
	"log"
	"strings"

	"github.com/joho/godotenv"
)

// dbtool creates the schema and loads the AED directory into the database.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("AED_DATA_PATH", "data/aed_data.json")
	if err := initAndSeed(conn, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(conn *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Printf("Seeding AED sites from %s...", seedPath)
	n, err := repositories.SeedFromJSON(conn, seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete. rows=%d", n)

	return nil
}
