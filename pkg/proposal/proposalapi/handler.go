package proposalapi

import (
	"github.com/Abraxas-365/confidant/pkg/iam"
	"github.com/Abraxas-365/confidant/pkg/iam/auth"
	"github.com/Abraxas-365/confidant/pkg/proposal"
	"github.com/Abraxas-365/confidant/pkg/proposal/proposalsrv"
	"github.com/gofiber/fiber/v2"
)

type ProposalHandlers struct {
	service *proposalsrv.ProposalService
}

func NewProposalHandlers(service *proposalsrv.ProposalService) *ProposalHandlers {
	return &ProposalHandlers{service: service}
}

func (h *ProposalHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.TokenMiddleware) {
	proposals := router.Group("/proposals", authMiddleware.Authenticate())

	proposals.Post("/:id/resolve", h.ResolveProposal)
}

func (h *ProposalHandlers) ResolveProposal(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return iam.ErrUnauthenticated()
	}

	proposalID := c.Params("id")
	var req proposal.ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	response, err := h.service.Resolve(c.Context(), authContext.UserID, proposalID, req)
	if err != nil {
		return err
	}

	return c.JSON(response)
}
