package dataset

import (
	"strings"

	"ceiba/core/logger"
	"ceiba/feature/dataset/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for dataset syncs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the dataset routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/datasets")
	group.Post("/sync", h.HandleSync)
	group.Get("/:id/status", h.HandleStatus)
}

// HandleStatus reports the remote state and persisted sync cache of one
// dataset. Read-only.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	status, err := h.service.Status(c.Context(), c.Params("id"))
	if err != nil {
		l.Error("dataset status failed",
			zap.String("dataset", c.Params("id")),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(status)
}

// HandleSync reconciles the dataset spec in the request body against the
// remote store and returns the post-sync spec. The optional "tables" query
// parameter (comma-separated ids) restricts the sync to a table subset.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var declared models.Dataset
	if err := c.BodyParser(&declared); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid dataset spec: " + err.Error(),
		})
	}

	var outcome *SyncOutcome
	var err error
	if tables := c.Query("tables"); tables != "" {
		outcome, err = h.service.SyncTables(c.Context(), declared, strings.Split(tables, ","))
	} else {
		outcome, err = h.service.Sync(c.Context(), declared)
	}
	if err != nil {
		l.Error("dataset sync failed",
			zap.String("dataset", declared.ID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(outcome)
}
