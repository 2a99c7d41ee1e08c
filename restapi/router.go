package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	evidenceevents "github.com/attestia/assurance-backend/events/modules/evidence"

	catalogpkg "github.com/attestia/assurance-backend/catalog"
	"github.com/attestia/assurance-backend/database"
	evidencestore "github.com/attestia/assurance-backend/evidence"
	"github.com/attestia/assurance-backend/restapi/modules/assessment"
	catalogapi "github.com/attestia/assurance-backend/restapi/modules/catalog"
	evidenceapi "github.com/attestia/assurance-backend/restapi/modules/evidence"
	"github.com/attestia/assurance-backend/restapi/modules/packs"
)

// Deps carries the shared collaborators the route handlers close over.
type Deps struct {
	DB       database.DBConnection
	Lib      *catalogpkg.Library
	Store    *evidencestore.Store
	Mapper   *evidencestore.Mapper
	Producer *evidenceevents.IngestProducer
	Packs    *packs.Generator
	Logger   *zap.SugaredLogger
}

// SetupRoutes registers all REST and GraphQL routes on the app.
func SetupRoutes(app *fiber.App, deps Deps, schema graphql.Schema) {
	api := app.Group("/api/v1")

	// Catalog
	api.Get("/frameworks", catalogapi.GetFrameworks(deps.Lib))
	api.Get("/frameworks/:framework/questions", catalogapi.GetQuestions(deps.Lib))
	api.Get("/frameworks/:framework/matrix", catalogapi.GetMatrix(deps.Lib))
	api.Get("/frameworks/:framework/controls/:controlId", catalogapi.GetControl(deps.Lib))

	// Evidence vault
	api.Post("/evidence/logs", evidenceapi.PostIngestLog(deps.Store, deps.Mapper, deps.Producer))
	api.Post("/evidence/documents", evidenceapi.PostIngestDocument(deps.Store, deps.Mapper, deps.Producer))
	api.Get("/evidence/search", evidenceapi.GetSearch(deps.Store))

	// Assessments
	api.Post("/assessments", assessment.PostCreateAssessment(deps.DB, deps.Lib))
	api.Get("/assessments/:key", assessment.GetAssessment(deps.DB))
	api.Get("/assessments/:key/answers", assessment.GetAnswers(deps.DB))
	api.Put("/assessments/:key/answers/:questionId", assessment.PutAnswer(deps.DB))
	api.Delete("/assessments/:key", assessment.DeleteAssessment(deps.DB))
	api.Post("/assessments/:key/autoanswer", assessment.PostAutoAnswer(deps.DB, deps.Store, deps.Logger))
	api.Get("/assessments/:key/autoanswer/status", assessment.GetAutoAnswerStatus())

	// Assurance packs
	api.Post("/packs/generate", packs.PostGenerate(deps.Packs))
	api.Get("/packs", packs.GetList(deps.DB))
	api.Get("/packs/:key/download", packs.GetDownload(deps.DB))
	api.Get("/packs/:key/report", packs.GetReport(deps.DB))

	// GraphQL
	api.Post("/graphql", GraphQLHandler(schema))
}
