package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/example/luxentra/internal/catalog"
)

// ProductHandler serves the static product dataset. The dataset is an
// external, read-only collaborator: there are no write endpoints.
type ProductHandler struct {
	catalog *catalog.Catalog
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(cat *catalog.Catalog) *ProductHandler {
	return &ProductHandler{catalog: cat}
}

// ListProducts returns the full product dataset, optionally filtered by
// category.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	products := h.catalog.List()

	if category := c.Query("category"); category != "" {
		filtered := make([]catalog.Product, 0, len(products))
		for _, p := range products {
			if p.Category == category {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	return c.JSON(fiber.Map{"success": true, "data": products})
}

// GetProduct returns a single product by id.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	product, ok := h.catalog.Get(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}
