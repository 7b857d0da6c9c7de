package proposal

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/confidant/pkg/errx"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/jmoiron/sqlx/types"
)

// ============================================================================
// PendingProposal Entity
// ============================================================================

// Operation es la mutación que aplicará la propuesta al confirmarse
type Operation string

const (
	OperationSet          Operation = "set"
	OperationAppendToList Operation = "append_to_list"
)

// Status del ciclo de vida de una propuesta. Solo 'pending' se persiste:
// los estados terminales se representan por la ausencia del registro.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// PendingProposal es un cambio de perfil propuesto, a la espera de la
// revisión de su dueño
type PendingProposal struct {
	ID          string         `db:"id" json:"id"`
	OwnerID     kernel.UserID  `db:"owner_id" json:"owner_id"`
	Point       string         `db:"point" json:"point"`
	SourceField string         `db:"source_field" json:"source_field"`
	Operation   Operation      `db:"operation" json:"operation"`
	Value       types.JSONText `db:"value" json:"value"`
	Status      Status         `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// Action es la decisión del dueño sobre una propuesta
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionReject  Action = "reject"
)

// Valid reporta si la acción pertenece al enum cerrado
func (a Action) Valid() bool {
	return a == ActionConfirm || a == ActionReject
}

// ============================================================================
// DTOs
// ============================================================================

// ResolveRequest es la petición para confirmar o rechazar una propuesta
type ResolveRequest struct {
	Action      Action  `json:"action"`
	EditedValue *string `json:"edited_value,omitempty"`
}

// ResolveResponse es el resultado de resolver una propuesta
type ResolveResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ============================================================================
// Error Registry - Errores de propuestas
// ============================================================================

var ErrRegistry = errx.NewRegistry("PROPOSAL")

var (
	// La falta de permiso se reporta igual que la ausencia, para no
	// revelar la existencia de propuestas ajenas
	CodeProposalNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Propuesta no encontrada o sin permiso")
	CodeInvalidAction    = ErrRegistry.Register("INVALID_ACTION", errx.TypeValidation, http.StatusBadRequest, "Acción inválida: use 'confirm' o 'reject'")
	CodeMalformedValue   = ErrRegistry.Register("MALFORMED_VALUE", errx.TypeInternal, http.StatusInternalServerError, "El valor almacenado de la propuesta está corrupto")
)

func ErrProposalNotFound() *errx.Error {
	return ErrRegistry.New(CodeProposalNotFound)
}

func ErrInvalidAction() *errx.Error {
	return ErrRegistry.New(CodeInvalidAction)
}

func ErrMalformedValue() *errx.Error {
	return ErrRegistry.New(CodeMalformedValue)
}
