// Package assessments defines the GraphQL types for assessment progress
// reporting.
package assessments

import (
	"github.com/graphql-go/graphql"
)

// GapDistributionType represents the number of answers per gap category
var GapDistributionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GapDistribution",
	Fields: graphql.Fields{
		"outdated":     &graphql.Field{Type: graphql.Int},
		"missing":      &graphql.Field{Type: graphql.Int},
		"insufficient": &graphql.Field{Type: graphql.Int},
	},
})

// AssessmentProgressType represents one assessment and its answering progress
var AssessmentProgressType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AssessmentProgress",
	Fields: graphql.Fields{
		"_key":          &graphql.Field{Type: graphql.String},
		"framework":     &graphql.Field{Type: graphql.String},
		"architecture":  &graphql.Field{Type: graphql.String},
		"status":        &graphql.Field{Type: graphql.String},
		"created_at":    &graphql.Field{Type: graphql.String},
		"updated_at":    &graphql.Field{Type: graphql.String},
		"total":         &graphql.Field{Type: graphql.Int},
		"answered":      &graphql.Field{Type: graphql.Int},
		"auto_answered": &graphql.Field{Type: graphql.Int},
		"gaps":          &graphql.Field{Type: GapDistributionType},
	},
})

// AnswerBreakdownType represents the yes/no/partial counts for one assessment
var AnswerBreakdownType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AnswerBreakdown",
	Fields: graphql.Fields{
		"yes":        &graphql.Field{Type: graphql.Int},
		"no":         &graphql.Field{Type: graphql.Int},
		"partial":    &graphql.Field{Type: graphql.Int},
		"unanswered": &graphql.Field{Type: graphql.Int},
	},
})
