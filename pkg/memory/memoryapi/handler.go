package memoryapi

import (
	"github.com/Abraxas-365/confidant/pkg/iam"
	"github.com/Abraxas-365/confidant/pkg/iam/auth"
	"github.com/Abraxas-365/confidant/pkg/memory"
	"github.com/Abraxas-365/confidant/pkg/memory/memorysrv"
	"github.com/gofiber/fiber/v2"
)

type MemoryHandlers struct {
	service *memorysrv.MemoryService
}

func NewMemoryHandlers(service *memorysrv.MemoryService) *MemoryHandlers {
	return &MemoryHandlers{service: service}
}

func (h *MemoryHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	memories := router.Group("/memory", authMiddleware.Authenticate())

	memories.Post("/retrieve", h.Retrieve)
}

func (h *MemoryHandlers) Retrieve(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	var req memory.RetrieveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	response, err := h.service.Retrieve(c.Context(), authContext.UserID, req)
	if err != nil {
		return err
	}

	return c.JSON(response)
}
