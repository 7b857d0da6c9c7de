package profile

import (
	"net/http"

	"github.com/Abraxas-365/confidant/pkg/errx"
)

// ============================================================================
// Profile Entity
// ============================================================================

// Relationship es una entrada de la lista de relaciones importantes,
// identificada por su nombre
type Relationship struct {
	Name     string `json:"name"`
	Relation string `json:"relation,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Profile es el perfil estructurado de un usuario. Solo los campos de esta
// lista blanca participan en la reconciliación y el diff; un campo está
// "vacío" exactamente cuando es null o una lista vacía, y cualquier otro
// valor está protegido contra sobreescritura silenciosa.
type Profile struct {
	DisplayName              *string        `json:"displayName" db:"-"`
	Gender                   *string        `json:"gender" db:"-"`
	Occupation               *string        `json:"occupation" db:"-"`
	RelationshipStatus       *string        `json:"relationshipStatus" db:"-"`
	PreferredInteractionTime *string        `json:"preferredInteractionTime" db:"-"`
	CognitivePatterns        []string       `json:"cognitivePatterns" db:"-"`
	ImportantRelationships   []Relationship `json:"importantRelationships" db:"-"`
	LifeChallenges           []string       `json:"lifeChallenges" db:"-"`
	Hobbies                  []string       `json:"hobbies" db:"-"`
	Ambitions                []string       `json:"ambitions" db:"-"`
	GrowthAreas              []string       `json:"growthAreas" db:"-"`
	TakesMedication          *bool          `json:"takesMedication" db:"-"`
	MedicationName           *string        `json:"medicationName" db:"-"`
	SeesTherapist            *bool          `json:"seesTherapist" db:"-"`
	HealthConditions         []string       `json:"healthConditions" db:"-"`
}

// FieldLabels mapea los nombres técnicos de los campos a sus etiquetas
// legibles en árabe, usadas en el texto de las propuestas de cambio
var FieldLabels = map[string]string{
	"displayName":              "الاسم",
	"gender":                   "الجنس",
	"occupation":               "المهنة",
	"relationshipStatus":       "الحالة الاجتماعية",
	"preferredInteractionTime": "وقت التفاعل المفضل",
	"cognitivePatterns":        "أنماط التفكير",
	"importantRelationships":   "العلاقات الهامة",
	"lifeChallenges":           "تحديات الحياة",
	"hobbies":                  "الهوايات",
	"ambitions":                "الطموحات",
	"growthAreas":              "مجالات للتطور",
	"takesMedication":          "يتناول دواء",
	"medicationName":           "اسم الدواء",
	"seesTherapist":            "يراجع معالجًا نفسيًا",
	"healthConditions":         "حالات صحية",
}

// IsWhitelistedField reporta si el campo participa en la reconciliación
func IsWhitelistedField(name string) bool {
	_, ok := FieldLabels[name]
	return ok
}

// Settings son las preferencias de interacción del usuario
type Settings struct {
	LinguisticGender string `json:"linguistic_gender" db:"linguistic_gender"`
	ResponseLength   string `json:"response_length" db:"response_length"`
}

// DefaultSettings son las preferencias usadas cuando el usuario no configuró nada
func DefaultSettings() Settings {
	return Settings{
		LinguisticGender: "male",
		ResponseLength:   "medium",
	}
}

// ============================================================================
// Finding
// ============================================================================

// FindingKind es el tipo cerrado de un hallazgo extraído
type FindingKind string

const (
	FindingFact        FindingKind = "fact"
	FindingObservation FindingKind = "observation"
)

// Valid reporta si el kind pertenece al enum cerrado
func (k FindingKind) Valid() bool {
	return k == FindingFact || k == FindingObservation
}

// Finding es un hecho o una observación atómica extraída de una conversación.
// Los findings son efímeros: viven lo que dura la invocación que los produjo.
type Finding struct {
	Kind    FindingKind `json:"type"`
	Content string      `json:"content"`
}

// ============================================================================
// DTOs
// ============================================================================

// ExtractRequest es la petición para consolidar una sesión en el perfil
type ExtractRequest struct {
	SessionID string `json:"session_id"`
}

// ExtractResponse resume el resultado del pipeline de consolidación
type ExtractResponse struct {
	FindingsExtracted int `json:"findings_extracted"`
	ProposalsCreated  int `json:"proposals_created"`
}

// ============================================================================
// Error Registry - Errores del pipeline de perfil
// ============================================================================

var ErrRegistry = errx.NewRegistry("PROFILE")

var (
	CodeSessionRequired   = ErrRegistry.Register("SESSION_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "Se requiere un 'session_id'")
	CodeNoMessages        = ErrRegistry.Register("NO_MESSAGES", errx.TypeValidation, http.StatusBadRequest, "La sesión no tiene mensajes para procesar")
	CodeMalformedResponse = ErrRegistry.Register("MALFORMED_RESPONSE", errx.TypeInternal, http.StatusInternalServerError, "La respuesta del servicio de razonamiento no cumple el contrato JSON")
	CodeReasoningFailed   = ErrRegistry.Register("REASONING_FAILED", errx.TypeExternal, http.StatusBadGateway, "El servicio de razonamiento no está disponible")
)

func ErrSessionRequired() *errx.Error {
	return ErrRegistry.New(CodeSessionRequired)
}

func ErrNoMessages() *errx.Error {
	return ErrRegistry.New(CodeNoMessages)
}

func ErrMalformedResponse() *errx.Error {
	return ErrRegistry.New(CodeMalformedResponse)
}

func ErrReasoningFailed() *errx.Error {
	return ErrRegistry.New(CodeReasoningFailed)
}
