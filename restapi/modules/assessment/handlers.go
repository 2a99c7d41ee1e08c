package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/attestia/assurance-backend/assess"
	catalogpkg "github.com/attestia/assurance-backend/catalog"
	"github.com/attestia/assurance-backend/database"
	"github.com/attestia/assurance-backend/evidence"
	"github.com/attestia/assurance-backend/model"
)

// PostCreateAssessment starts a new assessment session. The question list is
// filtered for the selected architecture and snapshotted into the assessment
// document, so later catalog updates cannot change a running session.
func PostCreateAssessment(db database.DBConnection, lib *catalogpkg.Library) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.CreateAssessmentRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		cat, ok := lib.Get(req.Framework)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Unknown framework: " + string(req.Framework),
			})
		}

		questions := assess.FilterQuestions(req.Architecture, cat.Matrix, cat.Questions)
		assessment := model.NewAssessment(req.Framework, req.Architecture, questions)

		meta, err := db.Collections["assessment"].CreateDocument(c.Context(), assessment)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to create assessment: " + err.Error(),
			})
		}
		assessment.Key = meta.Key

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success":    true,
			"assessment": assessment,
		})
	}
}

// GetAssessment returns one assessment with its question snapshot.
func GetAssessment(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		assessment, err := database.FindAssessmentByKey(c.Context(), db, c.Params("key"))
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Assessment not found",
			})
		}

		return c.JSON(fiber.Map{
			"success":    true,
			"assessment": assessment,
		})
	}
}

// GetAnswers returns the answer map of an assessment.
func GetAnswers(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		answers, err := listAnswers(c.Context(), db, c.Params("key"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to load answers: " + err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"count":   len(answers),
			"answers": answers,
		})
	}
}

// PutAnswer records a manual answer for one question of the snapshot.
func PutAnswer(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		assessment, err := database.FindAssessmentByKey(c.Context(), db, c.Params("key"))
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Assessment not found",
			})
		}

		questionID := c.Params("questionId")
		var question *model.Question
		for i := range assessment.Questions {
			if assessment.Questions[i].ID == questionID {
				question = &assessment.Questions[i]
				break
			}
		}
		if question == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Question is not part of this assessment: " + questionID,
			})
		}

		var req model.ManualAnswerRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}
		switch req.Answer {
		case model.AnswerYes, model.AnswerNo, model.AnswerPartial:
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "answer must be yes, no, or partial",
			})
		}

		answer := model.NewAssessmentAnswer(assessment.Key, *question)
		answer.Answer = req.Answer
		answer.Notes = req.Notes
		if req.Evidence != nil {
			answer.Evidence = req.Evidence
		}
		answer.AutoAnswered = false

		store := &answerStore{db: db, assessmentKey: assessment.Key}
		if err := store.Put(c.Context(), answer); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to store answer: " + err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"answer":  answer,
		})
	}
}

// DeleteAssessment resets a session: the assessment document and all of its
// answers are removed.
func DeleteAssessment(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Params("key")

		query := `
			FOR a IN assessment_answer
				FILTER a.assessment_key == @assessment
				REMOVE a IN assessment_answer`
		cursor, err := db.Database.Query(c.Context(), query, &arangodb.QueryOptions{
			BindVars: map[string]interface{}{"assessment": key},
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to remove answers: " + err.Error(),
			})
		}
		cursor.Close()

		if _, err := db.Collections["assessment"].DeleteDocument(c.Context(), key); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Assessment not found",
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Assessment reset",
		})
	}
}

var autoAnswerRunning = false
var autoAnswerProgress = ""

// PostAutoAnswer launches a background auto-answer run over the assessment's
// question snapshot. Only one run is active at a time; progress is polled via
// GetAutoAnswerStatus.
func PostAutoAnswer(db database.DBConnection, store *evidence.Store, logger *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if autoAnswerRunning {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "Auto-answer already running",
				"status":  autoAnswerProgress,
			})
		}

		assessment, err := database.FindAssessmentByKey(c.Context(), db, c.Params("key"))
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Assessment not found",
			})
		}

		var req model.AutoAnswerRequest
		_ = c.BodyParser(&req) // body is optional

		runner := &assess.Runner{
			Source:  &vaultSource{store: store, framework: assessment.Framework},
			Answers: &answerStore{db: db, assessmentKey: assessment.Key},
			Pack:    newMemoryPackList(),
			Policy:  assess.PolicyFromEnv(),
			Pacing:  100 * time.Millisecond,
			Logger:  logger,
			Progress: func(done, total int, questionID string) {
				autoAnswerProgress = fmt.Sprintf("Processed %d/%d questions (last: %s)", done, total, questionID)
			},
		}

		questions := assessment.Questions
		force := req.Force

		go func() {
			autoAnswerRunning = true
			autoAnswerProgress = fmt.Sprintf("Starting auto-answer for %d questions...", len(questions))

			res, err := runner.Run(context.Background(), assessment.Key, questions, force)
			if err != nil {
				autoAnswerProgress = fmt.Sprintf("Interrupted after %d answers: %v", res.Answered, err)
			} else {
				autoAnswerProgress = fmt.Sprintf("Complete! Answered: %d, Skipped: %d, Failed: %d",
					res.Answered, res.Skipped, res.Failed)
			}
			autoAnswerRunning = false
		}()

		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"success":   true,
			"message":   "Auto-answer started",
			"questions": len(questions),
		})
	}
}

// GetAutoAnswerStatus reports the state of the background auto-answer run.
func GetAutoAnswerStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"running": autoAnswerRunning,
			"status":  autoAnswerProgress,
		})
	}
}
