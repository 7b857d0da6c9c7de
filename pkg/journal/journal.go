package journal

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/confidant/pkg/errx"
	"github.com/Abraxas-365/confidant/pkg/kernel"
)

// ============================================================================
// Entry Entity
// ============================================================================

// Entry es una entrada del diario personal del usuario
type Entry struct {
	ID        string        `db:"id" json:"id"`
	OwnerID   kernel.UserID `db:"owner_id" json:"owner_id"`
	Title     *string       `db:"title" json:"title,omitempty"`
	Content   string        `db:"content" json:"content"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// DTOs
// ============================================================================

// TitleRequest es la petición para titular una entrada del diario
type TitleRequest struct {
	EntryID string `json:"entry_id"`
}

// TitleResponse es el título generado para la entrada
type TitleResponse struct {
	EntryID string `json:"entry_id"`
	Title   string `json:"title"`
}

// ============================================================================
// Error Registry - Errores del diario
// ============================================================================

var ErrRegistry = errx.NewRegistry("JOURNAL")

var (
	CodeEntryNotFound    = ErrRegistry.Register("ENTRY_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Entrada no encontrada")
	CodeEntryRequired    = ErrRegistry.Register("ENTRY_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "Se requiere un 'entry_id'")
	CodeGenerationFailed = ErrRegistry.Register("GENERATION_FAILED", errx.TypeExternal, http.StatusBadGateway, "El servicio de generación no está disponible")
)

func ErrEntryNotFound() *errx.Error {
	return ErrRegistry.New(CodeEntryNotFound)
}

func ErrEntryRequired() *errx.Error {
	return ErrRegistry.New(CodeEntryRequired)
}

func ErrGenerationFailed() *errx.Error {
	return ErrRegistry.New(CodeGenerationFailed)
}
