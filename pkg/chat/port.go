package chat

import (
	"context"

	"github.com/Abraxas-365/confidant/pkg/kernel"
)

// SessionRepository define el contrato para la persistencia de sesiones
type SessionRepository interface {
	FindByIDAndOwner(ctx context.Context, id kernel.SessionID, ownerID kernel.UserID) (*Session, error)
	SetTitle(ctx context.Context, id kernel.SessionID, ownerID kernel.UserID, title string) error

	// PurgePage borra hasta limit sesiones del dueño y devuelve cuántas borró
	PurgePage(ctx context.Context, ownerID kernel.UserID, limit int) (int, error)
}

// MessageRepository define el contrato para la persistencia de mensajes
type MessageRepository interface {
	FindBySession(ctx context.Context, sessionID kernel.SessionID, ownerID kernel.UserID) ([]Message, error)
	Save(ctx context.Context, msg Message) error

	// PurgePage borra hasta limit mensajes del dueño y devuelve cuántos borró
	PurgePage(ctx context.Context, ownerID kernel.UserID, limit int) (int, error)
}
