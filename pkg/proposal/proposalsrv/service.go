package proposalsrv

import (
	"context"
	"encoding/json"

	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/Abraxas-365/confidant/pkg/logx"
	"github.com/Abraxas-365/confidant/pkg/profile"
	"github.com/Abraxas-365/confidant/pkg/proposal"
)

// ProposalService resuelve propuestas pendientes. La resolución es de un
// solo uso: confirmar aplica la mutación al perfil y borra el registro,
// rechazar solo lo borra. Una propuesta ya resuelta (o ajena) se reporta
// como no encontrada.
type ProposalService struct {
	proposalRepo proposal.Repository
	profileRepo  profile.Repository
}

// NewProposalService crea una nueva instancia del servicio de propuestas
func NewProposalService(proposalRepo proposal.Repository, profileRepo profile.Repository) *ProposalService {
	return &ProposalService{
		proposalRepo: proposalRepo,
		profileRepo:  profileRepo,
	}
}

// Resolve confirma o rechaza una propuesta del dueño autenticado
func (s *ProposalService) Resolve(ctx context.Context, ownerID kernel.UserID, proposalID string, req proposal.ResolveRequest) (*proposal.ResolveResponse, error) {
	if !req.Action.Valid() {
		return nil, proposal.ErrInvalidAction().WithDetail("action", string(req.Action))
	}

	pending, err := s.proposalRepo.FindByIDAndOwner(ctx, proposalID, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Action == proposal.ActionReject {
		if err := s.proposalRepo.Delete(ctx, proposalID, ownerID); err != nil {
			return nil, err
		}
		logx.WithFields(logx.Fields{
			"owner_id":    ownerID.String(),
			"proposal_id": proposalID,
		}).Info("proposal rejected")
		return &proposal.ResolveResponse{
			Status:  string(proposal.StatusRejected),
			Message: "تم تجاهل الاقتراح.",
		}, nil
	}

	value, err := s.resolveValue(pending, req.EditedValue)
	if err != nil {
		return nil, err
	}

	switch pending.Operation {
	case proposal.OperationAppendToList:
		err = s.profileRepo.AppendToList(ctx, ownerID, pending.SourceField, value)
	default:
		err = s.profileRepo.SetField(ctx, ownerID, pending.SourceField, value)
	}
	if err != nil {
		return nil, err
	}

	if err := s.proposalRepo.Delete(ctx, proposalID, ownerID); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"owner_id":    ownerID.String(),
		"proposal_id": proposalID,
		"field":       pending.SourceField,
		"operation":   string(pending.Operation),
	}).Info("proposal confirmed")

	return &proposal.ResolveResponse{
		Status:  string(proposal.StatusConfirmed),
		Message: "تم تحديث ملفك الشخصي.",
	}, nil
}

// resolveValue devuelve el valor a aplicar, honrando la edición del usuario
// cuando el valor propuesto es una cadena. Ediciones sobre valores no
// textuales (booleanos, registros) se ignoran y gana el valor original.
func (s *ProposalService) resolveValue(pending *proposal.PendingProposal, edited *string) (json.RawMessage, error) {
	if len(pending.Value) == 0 || !json.Valid(pending.Value) {
		return nil, proposal.ErrMalformedValue().WithDetail("proposal_id", pending.ID)
	}

	if edited == nil {
		return json.RawMessage(pending.Value), nil
	}

	var original string
	if err := json.Unmarshal(pending.Value, &original); err != nil {
		// the stored value is not a plain string; the edit does not apply
		return json.RawMessage(pending.Value), nil
	}

	raw, err := json.Marshal(*edited)
	if err != nil {
		return nil, proposal.ErrMalformedValue().WithCause(err)
	}
	return raw, nil
}
