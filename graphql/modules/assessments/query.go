// Package assessments defines the GraphQL queries for assessment progress.
package assessments

import (
	"github.com/graphql-go/graphql"

	catalogpkg "github.com/attestia/assurance-backend/catalog"
	"github.com/attestia/assurance-backend/database"
)

// GetQueryFields returns the assessment queries to be mounted in the root
// schema
func GetQueryFields(db database.DBConnection, lib *catalogpkg.Library) graphql.Fields {
	return graphql.Fields{
		"assessments": &graphql.Field{
			Type: graphql.NewList(AssessmentProgressType),
			Args: graphql.FieldConfigArgument{
				"framework": &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				framework, _ := p.Args["framework"].(string)
				return ResolveAssessments(db, framework)
			},
		},
		"answerBreakdown": &graphql.Field{
			Type: AnswerBreakdownType,
			Args: graphql.FieldConfigArgument{
				"assessmentKey": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				key := p.Args["assessmentKey"].(string)
				return ResolveAnswerBreakdown(db, key)
			},
		},
		"catalogFrameworks": &graphql.Field{
			Type: graphql.NewList(graphql.String),
			Resolve: func(_ graphql.ResolveParams) (interface{}, error) {
				return lib.Frameworks(), nil
			},
		},
	}
}
