package accountapi

import (
	"github.com/Abraxas-365/confidant/pkg/account/accountsrv"
	"github.com/Abraxas-365/confidant/pkg/iam"
	"github.com/Abraxas-365/confidant/pkg/iam/auth"
	"github.com/gofiber/fiber/v2"
)

type AccountHandlers struct {
	service *accountsrv.AccountService
}

func NewAccountHandlers(service *accountsrv.AccountService) *AccountHandlers {
	return &AccountHandlers{service: service}
}

func (h *AccountHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	account := router.Group("/account", authMiddleware.Authenticate())

	account.Delete("/", h.PurgeAccount)
}

func (h *AccountHandlers) PurgeAccount(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	response, err := h.service.Purge(c.Context(), authContext.UserID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}
