// Package dashboard defines the GraphQL queries for the dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"

	"github.com/attestia/assurance-backend/database"
)

// GetQueryFields returns the dashboard queries to be mounted in the root schema
func GetQueryFields(db database.DBConnection) graphql.Fields {
	return graphql.Fields{
		// Section 1: Top Cards (Vault Overview)
		"vaultOverview": &graphql.Field{
			Type: VaultOverviewType,
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return ResolveVaultOverview(db)
			},
		},
		// Section 2: Trend Line (Ingestion Volume)
		"ingestionTrend": &graphql.Field{
			Type: graphql.NewList(IngestionTrendPointType),
			Args: graphql.FieldConfigArgument{
				"days": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 30},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				days := p.Args["days"].(int)
				return ResolveIngestionTrend(db, days)
			},
		},
		// Section 3: Tables (Best-Evidenced Controls)
		"controlCoverage": &graphql.Field{
			Type: graphql.NewList(ControlCoverageType),
			Args: graphql.FieldConfigArgument{
				"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				limit := p.Args["limit"].(int)
				return ResolveControlCoverage(db, limit)
			},
		},
	}
}
