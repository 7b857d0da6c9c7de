package tipsapi

import (
	"github.com/Abraxas-365/confidant/pkg/iam"
	"github.com/Abraxas-365/confidant/pkg/iam/auth"
	"github.com/Abraxas-365/confidant/pkg/tips/tipssrv"
	"github.com/gofiber/fiber/v2"
)

type TipsHandlers struct {
	service *tipssrv.TipsService
}

func NewTipsHandlers(service *tipssrv.TipsService) *TipsHandlers {
	return &TipsHandlers{service: service}
}

func (h *TipsHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	tipsGroup := router.Group("/tips", authMiddleware.Authenticate())

	tipsGroup.Get("/daily", h.DailyTip)
}

func (h *TipsHandlers) DailyTip(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	tip, err := h.service.DailyTip(c.Context(), authContext.UserID)
	if err != nil {
		return err
	}

	return c.JSON(tip)
}
