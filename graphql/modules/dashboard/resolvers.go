// Package dashboard implements the resolvers for dashboard metrics.
package dashboard

import (
	"context"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"

	"github.com/attestia/assurance-backend/database"
)

// ResolveVaultOverview handles fetching the high-level vault metrics
func ResolveVaultOverview(db database.DBConnection) (interface{}, error) {
	ctx := context.Background()

	counts := map[string]interface{}{}
	for field, collection := range map[string]string{
		"total_logs":      "evidence_log",
		"total_documents": "evidence_document",
		"total_links":     "evidence_link",
		"total_packs":     "assurance_pack",
	} {
		query := `RETURN LENGTH(` + collection + `)`
		cursor, err := db.Database.Query(ctx, query, nil)
		if err != nil {
			return nil, err
		}

		var count int
		if cursor.HasMore() {
			if _, err := cursor.ReadDocument(ctx, &count); err != nil {
				cursor.Close()
				return nil, err
			}
		}
		cursor.Close()
		counts[field] = count
	}

	return counts, nil
}

// ResolveIngestionTrend returns daily ingestion counts for the trend line
func ResolveIngestionTrend(db database.DBConnection, days int) ([]map[string]interface{}, error) {
	ctx := context.Background()
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	query := `
		LET logs = (
			FOR l IN evidence_log
				FILTER l.ingested_at >= @cutoff
				COLLECT day = SUBSTRING(l.ingested_at, 0, 10) WITH COUNT INTO n
				RETURN { day, n }
		)
		LET docs = (
			FOR d IN evidence_document
				FILTER d.uploaded_at >= @cutoff
				COLLECT day = SUBSTRING(d.uploaded_at, 0, 10) WITH COUNT INTO n
				RETURN { day, n }
		)
		LET daysSeen = UNIQUE(APPEND(logs[*].day, docs[*].day))
		FOR day IN daysSeen
			SORT day
			RETURN {
				date: day,
				logs: FIRST(FOR l IN logs FILTER l.day == day RETURN l.n) || 0,
				documents: FIRST(FOR d IN docs FILTER d.day == day RETURN d.n) || 0
			}`

	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"cutoff": cutoff},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	points := []map[string]interface{}{}
	for cursor.HasMore() {
		var point map[string]interface{}
		if _, err := cursor.ReadDocument(ctx, &point); err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, nil
}

// ResolveControlCoverage returns the controls with the most linked evidence
func ResolveControlCoverage(db database.DBConnection, limit int) ([]map[string]interface{}, error) {
	ctx := context.Background()

	query := `
		FOR link IN evidence_link
			COLLECT framework = link.framework, controlId = link.control_id, controlName = link.control_name
			AGGREGATE n = LENGTH(1), avgScore = AVG(link.score)
			SORT n DESC
			LIMIT @limit
			RETURN {
				framework: framework,
				control_id: controlId,
				control_name: controlName,
				evidence_count: n,
				avg_score: avgScore
			}`

	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"limit": limit},
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
