package memory

import (
	"context"

	"github.com/Abraxas-365/confidant/pkg/kernel"
)

// FactRepository define el contrato para la persistencia de hechos
type FactRepository interface {
	Save(ctx context.Context, fact Fact) error
	FindConfirmedByOwner(ctx context.Context, ownerID kernel.UserID) ([]Fact, error)

	// PurgePage borra hasta limit hechos del dueño y devuelve cuántos borró
	PurgePage(ctx context.Context, ownerID kernel.UserID, limit int) (int, error)
}

// EmbeddingCache evita recalcular el embedding de un hecho confirmado en
// cada turno de conversación. Un miss no es un error.
type EmbeddingCache interface {
	Get(ctx context.Context, factID string) ([]float32, bool, error)
	Set(ctx context.Context, factID string, vector []float32) error
	Delete(ctx context.Context, factIDs ...string) error
}
