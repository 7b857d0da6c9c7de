package journal

import (
	"context"

	"github.com/Abraxas-365/confidant/pkg/kernel"
)

// Repository define el contrato para la persistencia de entradas del diario
type Repository interface {
	FindByIDAndOwner(ctx context.Context, id string, ownerID kernel.UserID) (*Entry, error)
	SetTitle(ctx context.Context, id string, ownerID kernel.UserID, title string) error

	// PurgePage borra hasta limit entradas del dueño y devuelve cuántas borró
	PurgePage(ctx context.Context, ownerID kernel.UserID, limit int) (int, error)
}
