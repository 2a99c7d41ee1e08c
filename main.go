// package main provides the entry point for the assurance-backend
// microservice, wiring the database, control catalogs, the Kafka evidence
// consumer, and the Fiber app serving the REST and GraphQL APIs.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/attestia/assurance-backend/catalog"
	"github.com/attestia/assurance-backend/database"
	"github.com/attestia/assurance-backend/internal/api"
	"github.com/attestia/assurance-backend/internal/kafka"
	"github.com/attestia/assurance-backend/util"
)

var db database.DBConnection

func main() {
	// Load .env if present; real deployments use the environment directly
	_ = godotenv.Load()

	// Initialize database connection
	db = database.InitializeDatabase()

	// Load the control catalogs, highest version per framework
	catalogDir := util.GetEnvDefault("CATALOG_DIR", "config/catalogs")
	lib, err := catalog.Load(catalogDir)
	if err != nil {
		log.Fatalf("Failed to load control catalogs from %s: %v", catalogDir, err)
	}
	log.Printf("Loaded catalogs for frameworks: %v", lib.Frameworks())

	// Start the Kafka evidence consumer when brokers are configured
	if err := kafka.RunEventProcessor(context.Background(), db, lib); err != nil {
		log.Printf("Event processor not started: %v", err)
	}

	app := api.NewFiberApp(db, lib)

	port := util.GetEnvDefault("MS_PORT", "8080")

	log.Printf("Starting server on port %s", port)
	log.Printf("GraphQL endpoint available at /api/v1/graphql")
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
