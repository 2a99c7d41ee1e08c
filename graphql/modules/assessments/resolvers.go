// Package assessments implements the resolvers for assessment progress.
package assessments

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"

	"github.com/attestia/assurance-backend/database"
)

// ResolveAssessments lists assessments with their answering progress and gap
// distribution. An empty framework returns every assessment.
func ResolveAssessments(db database.DBConnection, framework string) ([]map[string]interface{}, error) {
	ctx := context.Background()

	query := `
		FOR a IN assessment
			FILTER @framework == "" || a.framework == @framework
			SORT a.created_at DESC
			LET answers = (
				FOR ans IN assessment_answer
					FILTER ans.assessment_key == a._key
					RETURN ans
			)
			RETURN {
				_key: a._key,
				framework: a.framework,
				architecture: a.architecture,
				status: a.status,
				created_at: a.created_at,
				updated_at: a.updated_at,
				total: LENGTH(a.questions),
				answered: LENGTH(FOR ans IN answers FILTER ans.answer != null && ans.answer != "" RETURN 1),
				auto_answered: LENGTH(FOR ans IN answers FILTER ans.autoAnswered == true RETURN 1),
				gaps: {
					outdated: LENGTH(FOR ans IN answers FILTER ans.gapType == "outdated" RETURN 1),
					missing: LENGTH(FOR ans IN answers FILTER ans.gapType == "missing" RETURN 1),
					insufficient: LENGTH(FOR ans IN answers FILTER ans.gapType == "insufficient" RETURN 1)
				}
			}`

	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"framework": framework},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	rows := []map[string]interface{}{}
	for cursor.HasMore() {
		var row map[string]interface{}
		if _, err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ResolveAnswerBreakdown returns the yes/no/partial counts for one assessment
func ResolveAnswerBreakdown(db database.DBConnection, assessmentKey string) (map[string]interface{}, error) {
	ctx := context.Background()

	query := `
		LET a = DOCUMENT("assessment", @key)
		LET answers = (
			FOR ans IN assessment_answer
				FILTER ans.assessment_key == @key
				RETURN ans
		)
		RETURN {
			yes: LENGTH(FOR ans IN answers FILTER ans.answer == "yes" RETURN 1),
			no: LENGTH(FOR ans IN answers FILTER ans.answer == "no" RETURN 1),
			partial: LENGTH(FOR ans IN answers FILTER ans.answer == "partial" RETURN 1),
			unanswered: LENGTH(a.questions) - LENGTH(FOR ans IN answers FILTER ans.answer != null && ans.answer != "" RETURN 1)
		}`

	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"key": assessmentKey},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var row map[string]interface{}
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, err
		}
	}
	return row, nil
}
