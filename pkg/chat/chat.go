package chat

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/confidant/pkg/errx"
	"github.com/Abraxas-365/confidant/pkg/kernel"
)

// ============================================================================
// Session Entity
// ============================================================================

// Session es una conversación entre el usuario y su confidente
type Session struct {
	ID        kernel.SessionID `db:"id" json:"id"`
	OwnerID   kernel.UserID    `db:"owner_id" json:"owner_id"`
	Title     *string          `db:"title" json:"title,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Message Entity
// ============================================================================

// MessageSender identifica quién escribió un mensaje
type MessageSender string

const (
	SenderUser      MessageSender = "user"
	SenderAssistant MessageSender = "assistant"
)

// Message es un turno dentro de una sesión, ordenado por CreatedAt
type Message struct {
	ID        string           `db:"id" json:"id"`
	SessionID kernel.SessionID `db:"session_id" json:"session_id"`
	OwnerID   kernel.UserID    `db:"owner_id" json:"owner_id"`
	Sender    MessageSender    `db:"sender" json:"sender"`
	Content   string           `db:"content" json:"content"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// ============================================================================
// DTOs
// ============================================================================

// TitleResponse es el título generado para una sesión
type TitleResponse struct {
	SessionID kernel.SessionID `json:"session_id"`
	Title     string           `json:"title"`
}

// RespondRequest es la petición de respuesta conversacional
type RespondRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// RespondResponse es la respuesta generada por el confidente
type RespondResponse struct {
	SessionID kernel.SessionID `json:"session_id"`
	Reply     string           `json:"reply"`
}

// ============================================================================
// Error Registry - Errores de chat
// ============================================================================

var ErrRegistry = errx.NewRegistry("CHAT")

var (
	CodeSessionNotFound  = ErrRegistry.Register("SESSION_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Sesión no encontrada")
	CodeMessageRequired  = ErrRegistry.Register("MESSAGE_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "Se requiere un mensaje")
	CodeGenerationFailed = ErrRegistry.Register("GENERATION_FAILED", errx.TypeExternal, http.StatusBadGateway, "El servicio de generación no está disponible")
)

func ErrSessionNotFound() *errx.Error {
	return ErrRegistry.New(CodeSessionNotFound)
}

func ErrMessageRequired() *errx.Error {
	return ErrRegistry.New(CodeMessageRequired)
}

func ErrGenerationFailed() *errx.Error {
	return ErrRegistry.New(CodeGenerationFailed)
}
