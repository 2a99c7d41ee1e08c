// Package graphql assembles the root GraphQL schema from the module query
// fields.
package graphql

import (
	"github.com/graphql-go/graphql"

	catalogpkg "github.com/attestia/assurance-backend/catalog"
	"github.com/attestia/assurance-backend/database"
	"github.com/attestia/assurance-backend/graphql/modules/assessments"
	"github.com/attestia/assurance-backend/graphql/modules/dashboard"
)

var dbConnection database.DBConnection
var library *catalogpkg.Library

// InitDB stores the shared collaborators used by the resolvers.
func InitDB(db database.DBConnection, lib *catalogpkg.Library) {
	dbConnection = db
	library = lib
}

// CreateSchema builds the root query schema from the module field sets.
func CreateSchema() (graphql.Schema, error) {
	fields := graphql.Fields{}

	for name, field := range dashboard.GetQueryFields(dbConnection) {
		fields[name] = field
	}
	for name, field := range assessments.GetQueryFields(dbConnection, library) {
		fields[name] = field
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
}
