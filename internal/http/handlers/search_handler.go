package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lacasa/internal/domain"
	"lacasa/internal/log"
	"lacasa/internal/services"
	"lacasa/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" {
		// Initial page load: show empty search without errors
		return render(c, "search", fiber.Map{"Q": "", "Result": services.SearchResult{}})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q"})
		return c.Status(fiber.StatusBadRequest).Render("search", fiber.Map{
			"Q": "", "Result": services.SearchResult{}, "Err": "Escribe una palabra válida (solo letras y números)",
		})
	}
	var category domain.CategoryKey
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		if category, ok = validate.Category(raw); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			return c.Status(fiber.StatusBadRequest).Render("search", fiber.Map{
				"Q": q, "Result": services.SearchResult{}, "Err": "Categoría inválida",
			})
		}
	}

	res, err := h.Catalog.Search(q, category)
	if err != nil {
		log.Error(c, "search.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "No pudimos cargar los resultados. Intenta de nuevo."})
	}

	return render(c, "search", fiber.Map{"Q": q, "Category": category, "Result": res})
}
