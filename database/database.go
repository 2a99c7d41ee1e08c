// Package database - Handles all interaction with ArangoDB
package database

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/attestia/assurance-backend/model"
)

var logger = InitLogger() // setup the logger

// DBConnection is the structure that defined the database engine and collections
type DBConnection struct {
	Collections map[string]arangodb.Collection
	Database    arangodb.Database
}

// Define a struct to hold the index definition
type indexConfig struct {
	Collection string
	IdxName    string
	IdxFields  []string
	Unique     bool
}

var initDone = false          // has the data been initialized
var dbConnection DBConnection // database connection definition

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key) // get the env var
	if !ex {                     // not found return default
		return defVal
	}
	return val // return value for env var
}

// InitLogger sets up the Zap Logger to log to the console in a human readable format
func InitLogger() *zap.Logger {
	prodConfig := zap.NewProductionConfig()
	prodConfig.Encoding = "console"
	prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	prodConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	logger, _ := prodConfig.Build()
	return logger
}

func dbConnectionConfig(endpoint connection.Endpoint, dbuser string, dbpass string) connection.HttpConfiguration {
	return connection.HttpConfiguration{
		Authentication: connection.NewBasicAuth(dbuser, dbpass),
		Endpoint:       endpoint,
		ContentType:    connection.ApplicationJSON,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // #nosec G402
			},
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 90 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// InitializeDatabase is the function for connecting to the db engine, creating the database and collections
func InitializeDatabase() DBConnection {
	const initialInterval = 10 * time.Second
	const maxInterval = 2 * time.Minute

	var db arangodb.Database
	var collections map[string]arangodb.Collection
	const databaseName = "assurance"

	ctx := context.Background()

	if initDone {
		return dbConnection
	}

	False := false
	True := true
	dbhost := GetEnvDefault("ARANGO_HOST", "localhost")
	dbport := GetEnvDefault("ARANGO_PORT", "8529")
	dbuser := GetEnvDefault("ARANGO_USER", "root")
	dbpass := GetEnvDefault("ARANGO_PASS", "mypassword")
	dburl := GetEnvDefault("ARANGO_URL", "http://"+dbhost+":"+dbport)

	var client arangodb.Client

	//
	// Database connection with backoff retry
	//

	// Configure exponential backoff
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval
	bo.MaxInterval = maxInterval
	bo.MaxElapsedTime = 0 // Set to 0 for indefinite retries

	// Retry logic
	err := backoff.RetryNotify(func() error {
		fmt.Println("Attempting to connect to ArangoDB")
		endpoint := connection.NewRoundRobinEndpoints([]string{dburl})
		conn := connection.NewHttpConnection(dbConnectionConfig(endpoint, dbuser, dbpass))

		client = arangodb.NewClient(conn)

		// Ask the version of the server
		versionInfo, err := client.Version(context.Background())
		if err != nil {
			return err
		}

		logger.Sugar().Infof("Database has version '%s' and license '%s'\n", versionInfo.Version, versionInfo.License)
		return nil

	}, bo, func(err error, _ time.Duration) {
		fmt.Printf("Retrying connection to ArangoDB: %v\n", err)
	})

	if err != nil {
		logger.Sugar().Fatalf("Backoff Error %v\n", err)
	}

	//
	// Database creation
	//

	exists := false
	dblist, _ := client.Databases(ctx)

	for _, dbinfo := range dblist {
		if dbinfo.Name() == databaseName {
			exists = true
			break
		}
	}

	if exists {
		var options arangodb.GetDatabaseOptions
		if db, err = client.GetDatabase(ctx, databaseName, &options); err != nil {
			logger.Sugar().Fatalf("Failed to get Database: %v", err)
		}
	} else {
		if db, err = client.CreateDatabase(ctx, databaseName, nil); err != nil {
			logger.Sugar().Fatalf("Failed to create Database: %v", err)
		}
	}

	//
	// Collection creation for document storage
	//

	collections = make(map[string]arangodb.Collection)
	collectionNames := []string{
		"evidence_log",
		"evidence_document",
		"evidence_link",
		"assessment",
		"assessment_answer",
		"assurance_pack",
	}

	for _, collectionName := range collectionNames {
		var col arangodb.Collection

		exists, _ = db.CollectionExists(ctx, collectionName)
		if exists {
			var options arangodb.GetCollectionOptions
			if col, err = db.GetCollection(ctx, collectionName, &options); err != nil {
				logger.Sugar().Fatalf("Failed to use collection: %v", err)
			}
		} else {
			if col, err = db.CreateCollection(ctx, collectionName, nil); err != nil {
				logger.Sugar().Fatalf("Failed to create collection: %v", err)
			}
		}

		collections[collectionName] = col
	}

	//
	// Index creation
	//

	idxList := []indexConfig{
		// Evidence log indexes for time-window and source queries
		{Collection: "evidence_log", IdxName: "log_event_time", IdxFields: []string{"event_time"}},
		{Collection: "evidence_log", IdxName: "log_source", IdxFields: []string{"source"}},
		{Collection: "evidence_log", IdxName: "log_content_sha", IdxFields: []string{"content_sha"}},

		// Evidence document indexes
		{Collection: "evidence_document", IdxName: "doc_uploaded_at", IdxFields: []string{"uploaded_at"}},
		{Collection: "evidence_document", IdxName: "doc_type", IdxFields: []string{"doc_type"}},
		{Collection: "evidence_document", IdxName: "doc_content_sha", IdxFields: []string{"content_sha"}},

		// Evidence link indexes for control-scoped evidence queries.
		// The unique composite index makes re-mapping idempotent.
		{Collection: "evidence_link", IdxName: "link_control", IdxFields: []string{"framework", "control_id"}},
		{Collection: "evidence_link", IdxName: "link_evidence", IdxFields: []string{"evidence_key"}},
		{Collection: "evidence_link", IdxName: "link_unique", IdxFields: []string{"evidence_key", "framework", "control_id"}, Unique: true},

		// Assessment indexes
		{Collection: "assessment", IdxName: "assessment_framework", IdxFields: []string{"framework"}},
		{Collection: "assessment", IdxName: "assessment_status", IdxFields: []string{"status"}},
		{Collection: "assessment", IdxName: "assessment_created_at", IdxFields: []string{"created_at"}},

		// Answer indexes. The unique (assessment_key, questionId) index is what
		// makes the per-question UPSERT atomic: one answer document per question.
		{Collection: "assessment_answer", IdxName: "answer_assessment", IdxFields: []string{"assessment_key"}},
		{Collection: "assessment_answer", IdxName: "answer_unique", IdxFields: []string{"assessment_key", "questionId"}, Unique: true},
		{Collection: "assessment_answer", IdxName: "answer_gap_type", IdxFields: []string{"gapType"}},

		// Pack indexes
		{Collection: "assurance_pack", IdxName: "pack_id", IdxFields: []string{"pack_id"}, Unique: true},
		{Collection: "assurance_pack", IdxName: "pack_assessment", IdxFields: []string{"assessment_key"}},
		{Collection: "assurance_pack", IdxName: "pack_generated_at", IdxFields: []string{"generated_at"}},
	}

	for _, idx := range idxList {
		found := false

		if indexes, err := collections[idx.Collection].Indexes(ctx); err == nil {
			for _, index := range indexes {
				if idx.IdxName == index.Name {
					found = true
					break
				}
			}
		}

		if !found {
			unique := &False
			if idx.Unique {
				unique = &True
			}
			indexOptions := arangodb.CreatePersistentIndexOptions{
				Unique: unique,
				Sparse: &False,
				Name:   idx.IdxName,
			}

			_, _, err = collections[idx.Collection].EnsurePersistentIndex(ctx, idx.IdxFields, &indexOptions)
			if err != nil {
				logger.Sugar().Fatalln("Error creating index:", err)
			} else {
				logger.Sugar().Infof("Created index: %s on %s %v", idx.IdxName, idx.Collection, idx.IdxFields)
			}
		}
	}

	dbConnection = DBConnection{Collections: collections, Database: db}
	initDone = true

	return dbConnection
}

// FindLogByContentSha looks up an evidence log by its content hash, used to
// deduplicate repeated ingestion of the same payload.
func FindLogByContentSha(ctx context.Context, db DBConnection, contentSha string) (*model.EvidenceLog, error) {
	query := `
		FOR log IN evidence_log
			FILTER log.content_sha == @sha
			LIMIT 1
			RETURN log`

	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"sha": contentSha},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if cursor.HasMore() {
		var log model.EvidenceLog
		if _, err := cursor.ReadDocument(ctx, &log); err != nil {
			return nil, err
		}
		return &log, nil
	}

	return nil, nil
}

// FindDocumentByContentSha looks up an evidence document by its content hash.
func FindDocumentByContentSha(ctx context.Context, db DBConnection, contentSha string) (*model.EvidenceDocument, error) {
	query := `
		FOR doc IN evidence_document
			FILTER doc.content_sha == @sha
			LIMIT 1
			RETURN doc`

	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"sha": contentSha},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if cursor.HasMore() {
		var doc model.EvidenceDocument
		if _, err := cursor.ReadDocument(ctx, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}

	return nil, nil
}

// FindAssessmentByKey fetches one assessment document.
func FindAssessmentByKey(ctx context.Context, db DBConnection, key string) (*model.Assessment, error) {
	var assessment model.Assessment
	if _, err := db.Collections["assessment"].ReadDocument(ctx, key, &assessment); err != nil {
		return nil, err
	}
	assessment.Key = key
	return &assessment, nil
}
