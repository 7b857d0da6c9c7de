package journalapi

import (
	"github.com/Abraxas-365/confidant/pkg/iam"
	"github.com/Abraxas-365/confidant/pkg/iam/auth"
	"github.com/Abraxas-365/confidant/pkg/journal"
	"github.com/Abraxas-365/confidant/pkg/journal/journalsrv"
	"github.com/gofiber/fiber/v2"
)

type JournalHandlers struct {
	service *journalsrv.JournalService
}

func NewJournalHandlers(service *journalsrv.JournalService) *JournalHandlers {
	return &JournalHandlers{service: service}
}

func (h *JournalHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	journals := router.Group("/journal", authMiddleware.Authenticate())

	journals.Post("/title", h.GenerateTitle)
}

func (h *JournalHandlers) GenerateTitle(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	var req journal.TitleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	response, err := h.service.GenerateTitle(c.Context(), authContext.UserID, req)
	if err != nil {
		return err
	}

	return c.JSON(response)
}
