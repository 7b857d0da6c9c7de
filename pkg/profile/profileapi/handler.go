package profileapi

import (
	"github.com/Abraxas-365/confidant/pkg/iam"
	"github.com/Abraxas-365/confidant/pkg/iam/auth"
	"github.com/Abraxas-365/confidant/pkg/profile"
	"github.com/Abraxas-365/confidant/pkg/profile/profilesrv"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandlers struct {
	service *profilesrv.ProfileService
}

func NewProfileHandlers(service *profilesrv.ProfileService) *ProfileHandlers {
	return &ProfileHandlers{service: service}
}

func (h *ProfileHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	profiles := router.Group("/profile", authMiddleware.Authenticate())

	profiles.Get("/", h.GetProfile)
	profiles.Post("/extract", h.RunExtraction)
}

func (h *ProfileHandlers) GetProfile(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	p, err := h.service.GetProfile(c.Context(), authContext.UserID)
	if err != nil {
		return err
	}

	return c.JSON(p)
}

func (h *ProfileHandlers) RunExtraction(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	var req profile.ExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	response, err := h.service.RunExtraction(c.Context(), authContext.UserID, req)
	if err != nil {
		return err
	}

	return c.JSON(response)
}
