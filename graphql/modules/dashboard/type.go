// Package dashboard defines the GraphQL types for the application dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
)

// VaultOverviewType represents the high-level vault metrics for the top cards
var VaultOverviewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "VaultOverview",
	Fields: graphql.Fields{
		"total_logs":      &graphql.Field{Type: graphql.Int},
		"total_documents": &graphql.Field{Type: graphql.Int},
		"total_links":     &graphql.Field{Type: graphql.Int},
		"total_packs":     &graphql.Field{Type: graphql.Int},
	},
})

// IngestionTrendPointType represents the daily count of ingested evidence
var IngestionTrendPointType = graphql.NewObject(graphql.ObjectConfig{
	Name: "IngestionTrendPoint",
	Fields: graphql.Fields{
		"date":      &graphql.Field{Type: graphql.String},
		"logs":      &graphql.Field{Type: graphql.Int},
		"documents": &graphql.Field{Type: graphql.Int},
	},
})

// ControlCoverageType represents rows for the "most evidenced controls" table
var ControlCoverageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ControlCoverage",
	Fields: graphql.Fields{
		"framework":      &graphql.Field{Type: graphql.String},
		"control_id":     &graphql.Field{Type: graphql.String},
		"control_name":   &graphql.Field{Type: graphql.String},
		"evidence_count": &graphql.Field{Type: graphql.Int},
		"avg_score":      &graphql.Field{Type: graphql.Float},
	},
})
