// Package evidence exposes vault ingestion and search over the REST API.
package evidence

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	evidenceevents "github.com/attestia/assurance-backend/events/modules/evidence"

	"github.com/attestia/assurance-backend/evidence"
	"github.com/attestia/assurance-backend/model"
	"github.com/attestia/assurance-backend/util"
)

// PostIngestLog stores a raw log record in the vault. With auto_map set the
// control mapping runs inline; otherwise it is left to the event worker.
func PostIngestLog(store *evidence.Store, mapper *evidence.Mapper, producer *evidenceevents.IngestProducer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.IngestLogRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}
		if util.IsEmpty(req.Source) || util.IsEmpty(req.Content) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "source and content are required",
			})
		}

		log, created, err := store.IngestLog(c.Context(), req)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to ingest log: " + err.Error(),
			})
		}

		mapped := 0
		if created {
			if req.AutoMap {
				links, err := mapper.MapEvidence(c.Context(), log.Key, model.EvidenceTypeLog, log.Content)
				if err != nil {
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
						"success": false,
						"message": "Ingested but mapping failed: " + err.Error(),
					})
				}
				mapped = len(links)
			} else {
				_ = producer.PublishEvidenceIngested(c.Context(), log.Key, model.EvidenceTypeLog, log.ContentSha)
			}
		}

		status := fiber.StatusCreated
		if !created {
			status = fiber.StatusOK
		}
		return c.Status(status).JSON(fiber.Map{
			"success":         true,
			"key":             log.Key,
			"content_sha":     log.ContentSha,
			"created":         created,
			"mapped_controls": mapped,
		})
	}
}

// PostIngestDocument stores an uploaded document in the vault.
func PostIngestDocument(store *evidence.Store, mapper *evidence.Mapper, producer *evidenceevents.IngestProducer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.IngestDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}
		if util.IsEmpty(req.Filename) || util.IsEmpty(req.Content) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "filename and content are required",
			})
		}

		doc, created, err := store.IngestDocument(c.Context(), req)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to ingest document: " + err.Error(),
			})
		}

		mapped := 0
		if created {
			if req.AutoMap {
				links, err := mapper.MapEvidence(c.Context(), doc.Key, model.EvidenceTypeDocument, doc.Content)
				if err != nil {
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
						"success": false,
						"message": "Ingested but mapping failed: " + err.Error(),
					})
				}
				mapped = len(links)
			} else {
				_ = producer.PublishEvidenceIngested(c.Context(), doc.Key, model.EvidenceTypeDocument, doc.ContentSha)
			}
		}

		status := fiber.StatusCreated
		if !created {
			status = fiber.StatusOK
		}
		return c.Status(status).JSON(fiber.Map{
			"success":         true,
			"key":             doc.Key,
			"content_sha":     doc.ContentSha,
			"created":         created,
			"mapped_controls": mapped,
		})
	}
}

// GetSearch queries the vault by free text, optionally scoped to a framework
// control and a time window.
func GetSearch(store *evidence.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := evidence.SearchParams{
			Query:     c.Query("q"),
			Framework: model.Framework(c.Query("framework")),
			ControlID: c.Query("control_id"),
		}

		if limit, err := strconv.Atoi(c.Query("limit", "20")); err == nil {
			params.Limit = limit
		}
		if since := c.Query("since"); since != "" {
			t, err := time.Parse(time.RFC3339, since)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"success": false,
					"message": "Invalid since timestamp: " + err.Error(),
				})
			}
			params.Since = &t
		}
		if until := c.Query("until"); until != "" {
			t, err := time.Parse(time.RFC3339, until)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"success": false,
					"message": "Invalid until timestamp: " + err.Error(),
				})
			}
			params.Until = &t
		}

		items, err := store.Search(c.Context(), params)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Search failed: " + err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"count":   len(items),
			"items":   items,
		})
	}
}
