package proposal

import (
	"context"

	"github.com/Abraxas-365/confidant/pkg/kernel"
)

// Repository define el contrato para la persistencia de propuestas pendientes.
// Delete es la transición terminal: borra exactamente una vez y devuelve
// ErrProposalNotFound si el registro ya fue consumido.
type Repository interface {
	SaveBatch(ctx context.Context, proposals []PendingProposal) error
	FindByIDAndOwner(ctx context.Context, id string, ownerID kernel.UserID) (*PendingProposal, error)
	Delete(ctx context.Context, id string, ownerID kernel.UserID) error

	// PurgePage borra hasta limit propuestas del dueño y devuelve cuántas borró
	PurgePage(ctx context.Context, ownerID kernel.UserID, limit int) (int, error)
}
