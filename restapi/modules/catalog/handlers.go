// Package catalog exposes the loaded framework catalogs over the REST API.
package catalog

import (
	"github.com/gofiber/fiber/v2"

	"github.com/attestia/assurance-backend/assess"
	catalogpkg "github.com/attestia/assurance-backend/catalog"
	"github.com/attestia/assurance-backend/model"
)

// GetFrameworks lists the loaded frameworks with their catalog versions.
func GetFrameworks(lib *catalogpkg.Library) fiber.Handler {
	return func(c *fiber.Ctx) error {
		frameworks := []fiber.Map{}
		for _, f := range lib.Frameworks() {
			cat, _ := lib.Get(f)
			frameworks = append(frameworks, fiber.Map{
				"framework":     f,
				"version":       cat.Version.String(),
				"architectures": cat.Architectures,
				"questions":     len(cat.Questions),
			})
		}

		return c.JSON(fiber.Map{
			"success":    true,
			"frameworks": frameworks,
		})
	}
}

// GetQuestions returns a framework's question list, filtered by the
// architecture query parameter when one is given.
func GetQuestions(lib *catalogpkg.Library) fiber.Handler {
	return func(c *fiber.Ctx) error {
		framework := model.Framework(c.Params("framework"))
		cat, ok := lib.Get(framework)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Unknown framework: " + string(framework),
			})
		}

		architecture := model.Architecture(c.Query("architecture"))
		questions := assess.FilterQuestions(architecture, cat.Matrix, cat.Questions)

		return c.JSON(fiber.Map{
			"success":      true,
			"framework":    framework,
			"architecture": architecture,
			"questions":    questions,
		})
	}
}

// GetMatrix returns a framework's control applicability matrix.
func GetMatrix(lib *catalogpkg.Library) fiber.Handler {
	return func(c *fiber.Ctx) error {
		framework := model.Framework(c.Params("framework"))
		matrix := lib.Matrix(framework)
		if matrix == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Unknown framework: " + string(framework),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"matrix":  matrix,
		})
	}
}

// GetControl returns one control row, including its architecture scopes.
func GetControl(lib *catalogpkg.Library) fiber.Handler {
	return func(c *fiber.Ctx) error {
		framework := model.Framework(c.Params("framework"))
		cat, ok := lib.Get(framework)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Unknown framework: " + string(framework),
			})
		}

		control := cat.Control(c.Params("controlId"))
		if control == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Unknown control: " + c.Params("controlId"),
			})
		}

		return c.JSON(fiber.Map{
			"success": true,
			"control": control,
		})
	}
}
