package profile

import (
	"context"
	"encoding/json"

	"github.com/Abraxas-365/confidant/pkg/kernel"
)

// Repository define el contrato para la persistencia de perfiles.
// Get devuelve un perfil vacío (no un error) cuando el dueño aún no tiene
// documento; las mutaciones de campo son atómicas por documento.
type Repository interface {
	Get(ctx context.Context, ownerID kernel.UserID) (*Profile, error)
	SetField(ctx context.Context, ownerID kernel.UserID, field string, value json.RawMessage) error
	AppendToList(ctx context.Context, ownerID kernel.UserID, field string, value json.RawMessage) error
	Delete(ctx context.Context, ownerID kernel.UserID) error
}

// SettingsRepository define el contrato para las preferencias de interacción
type SettingsRepository interface {
	Get(ctx context.Context, ownerID kernel.UserID) (Settings, error)
	Delete(ctx context.Context, ownerID kernel.UserID) error
}
