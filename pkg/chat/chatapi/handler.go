package chatapi

import (
	"github.com/Abraxas-365/confidant/pkg/chat"
	"github.com/Abraxas-365/confidant/pkg/chat/chatsrv"
	"github.com/Abraxas-365/confidant/pkg/iam"
	"github.com/Abraxas-365/confidant/pkg/iam/auth"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type ChatHandlers struct {
	service *chatsrv.ChatService
}

func NewChatHandlers(service *chatsrv.ChatService) *ChatHandlers {
	return &ChatHandlers{service: service}
}

func (h *ChatHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	chats := router.Group("/chat", authMiddleware.Authenticate())

	chats.Post("/sessions/:id/title", h.GenerateTitle)
	chats.Post("/respond", h.Respond)
}

func (h *ChatHandlers) GenerateTitle(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	sessionID := kernel.NewSessionID(c.Params("id"))
	response, err := h.service.GenerateTitle(c.Context(), authContext.UserID, sessionID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

func (h *ChatHandlers) Respond(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	var req chat.RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	response, err := h.service.Respond(c.Context(), authContext.UserID, req)
	if err != nil {
		return err
	}

	return c.JSON(response)
}
