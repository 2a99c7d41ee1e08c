package packs

import (
	"archive/zip"
	"io"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/gofiber/fiber/v2"

	"github.com/attestia/assurance-backend/database"
	"github.com/attestia/assurance-backend/model"
	"github.com/attestia/assurance-backend/util"
)

// PostGenerate assembles a new assurance pack.
func PostGenerate(gen *Generator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.GeneratePackRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}
		if util.IsEmpty(req.AssessmentKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "assessment_key is required",
			})
		}

		pack, err := gen.Generate(c.Context(), req)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Pack generation failed: " + err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"pack":    pack,
		})
	}
}

// GetList returns pack metadata, newest first.
func GetList(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := `
			FOR p IN assurance_pack
				SORT p.generated_at DESC
				RETURN p`

		cursor, err := db.Database.Query(c.Context(), query, &arangodb.QueryOptions{})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to list packs: " + err.Error(),
			})
		}
		defer cursor.Close()

		packs := []model.AssurancePack{}
		for cursor.HasMore() {
			var pack model.AssurancePack
			meta, err := cursor.ReadDocument(c.Context(), &pack)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"message": "Failed to read pack: " + err.Error(),
				})
			}
			pack.Key = meta.Key
			packs = append(packs, pack)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"count":   len(packs),
			"packs":   packs,
		})
	}
}

// GetDownload streams a pack archive.
func GetDownload(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var pack model.AssurancePack
		if _, err := db.Collections["assurance_pack"].ReadDocument(c.Context(), c.Params("key"), &pack); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Pack not found",
			})
		}
		if !util.FileExists(pack.FilePath) {
			return c.Status(fiber.StatusGone).JSON(fiber.Map{
				"success": false,
				"message": "Pack archive no longer available",
			})
		}

		return c.Download(pack.FilePath, pack.FileName)
	}
}

// GetReport returns the report.md stored inside a pack archive.
func GetReport(db database.DBConnection) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var pack model.AssurancePack
		if _, err := db.Collections["assurance_pack"].ReadDocument(c.Context(), c.Params("key"), &pack); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Pack not found",
			})
		}

		zr, err := zip.OpenReader(pack.FilePath)
		if err != nil {
			return c.Status(fiber.StatusGone).JSON(fiber.Map{
				"success": false,
				"message": "Pack archive no longer available",
			})
		}
		defer zr.Close()

		for _, f := range zr.File {
			if f.Name != "report.md" {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				break
			}
			defer rc.Close()
			report, err := io.ReadAll(rc)
			if err != nil {
				break
			}
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.Send(report)
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Report missing from pack archive",
		})
	}
}
