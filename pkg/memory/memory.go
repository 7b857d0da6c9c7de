package memory

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/confidant/pkg/errx"
	"github.com/Abraxas-365/confidant/pkg/kernel"
)

// ============================================================================
// MemoryFact Entity
// ============================================================================

// FactStatus del ciclo de vida de un hecho de memoria
type FactStatus string

const (
	FactStatusPending   FactStatus = "pending"
	FactStatusConfirmed FactStatus = "confirmed"
)

// Fact es un hecho de la memoria de largo plazo del usuario. Solo los
// hechos confirmados son elegibles para la recuperación semántica.
type Fact struct {
	ID        string        `db:"id" json:"id"`
	OwnerID   kernel.UserID `db:"owner_id" json:"owner_id"`
	Category  string        `db:"category" json:"category"`
	Content   string        `db:"content" json:"content"`
	Status    FactStatus    `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// Text es la representación del hecho tal como se incrusta y se inyecta
// en el contexto del modelo
func (f Fact) Text() string {
	if f.Category == "" {
		return f.Content
	}
	return f.Category + ": " + f.Content
}

// ScoredFact es un hecho con su similitud de coseno contra la consulta
type ScoredFact struct {
	Fact  Fact    `json:"fact"`
	Score float64 `json:"score"`
}

// ============================================================================
// DTOs
// ============================================================================

// RetrieveRequest es la petición de recuperación semántica
type RetrieveRequest struct {
	Query string `json:"query"`
}

// RetrieveResponse es la lista ordenada de hechos relevantes
type RetrieveResponse struct {
	Facts []ScoredFact `json:"facts"`
	Total int          `json:"total"`
}

// ============================================================================
// Error Registry - Errores de memoria
// ============================================================================

var ErrRegistry = errx.NewRegistry("MEMORY")

var (
	CodeQueryRequired   = ErrRegistry.Register("QUERY_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "Se requiere una consulta 'query'")
	CodeEmbeddingFailed = ErrRegistry.Register("EMBEDDING_FAILED", errx.TypeExternal, http.StatusBadGateway, "El servicio de embeddings no está disponible")
)

func ErrQueryRequired() *errx.Error {
	return ErrRegistry.New(CodeQueryRequired)
}

func ErrEmbeddingFailed() *errx.Error {
	return ErrRegistry.New(CodeEmbeddingFailed)
}
