package api

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"

	evidenceevents "github.com/attestia/assurance-backend/events/modules/evidence"

	catalogpkg "github.com/attestia/assurance-backend/catalog"
	"github.com/attestia/assurance-backend/database"
	evidencestore "github.com/attestia/assurance-backend/evidence"
	gqlschema "github.com/attestia/assurance-backend/graphql"
	"github.com/attestia/assurance-backend/restapi"
	"github.com/attestia/assurance-backend/restapi/modules/packs"
	"github.com/attestia/assurance-backend/util"
)

// NewFiberApp creates and configures a Fiber app with REST and GraphQL routes
func NewFiberApp(db database.DBConnection, lib *catalogpkg.Library) *fiber.App {
	// Initialize GraphQL schema
	gqlschema.InitDB(db, lib)
	schema, err := gqlschema.CreateSchema()
	if err != nil {
		log.Fatalf("Failed to create GraphQL schema: %v", err)
	}

	sugar := database.InitLogger().Sugar()

	store := evidencestore.NewStore(db, lib, sugar)
	mapper := evidencestore.NewMapper(db, lib, sugar)

	var producer *evidenceevents.IngestProducer
	if brokersEnv := os.Getenv("KAFKA_BROKERS"); brokersEnv != "" {
		topic := util.GetEnvDefault("KAFKA_EVIDENCE_TOPIC", "evidence-events")
		producer = evidenceevents.NewIngestProducer(strings.Split(brokersEnv, ","), topic)
	}

	generator := &packs.Generator{
		DB:     db,
		Dir:    util.GetEnvDefault("PACK_DIR", "packs"),
		Logger: sugar,
	}

	app := fiber.New(fiber.Config{
		AppName:     "assurance-backend API v1.0",
		BodyLimit:   50 * 1024 * 1024, // 50MB
		ReadTimeout: 60 * time.Second, // seconds
	})

	// Middleware
	app.Use(fiberrecover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	// Consolidated CORS Configuration
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://localhost:4000,http://127.0.0.1:3000,http://127.0.0.1:4000",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		AllowMethods:     "GET, POST, HEAD, PUT, DELETE, PATCH, OPTIONS",
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("graphql_op", "-")
		return c.Next()
	})
	app.Use(logger.New())

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	// Setup REST and GraphQL routes (Pass the schema here)
	restapi.SetupRoutes(app, restapi.Deps{
		DB:       db,
		Lib:      lib,
		Store:    store,
		Mapper:   mapper,
		Producer: producer,
		Packs:    generator,
		Logger:   sugar,
	}, schema)

	return app
}
