package tips

import (
	"net/http"

	"github.com/Abraxas-365/confidant/pkg/errx"
)

// Kind es la variante de consejo diario elegida
type Kind string

const (
	KindPersonalized Kind = "personalized"
	KindQuote        Kind = "quote"
	KindWisdom       Kind = "wisdom"
)

// Tip es el consejo diario entregado al usuario
type Tip struct {
	Kind    Kind   `json:"kind"`
	Content string `json:"content"`
}

var ErrRegistry = errx.NewRegistry("TIPS")

var CodeGenerationFailed = ErrRegistry.Register("GENERATION_FAILED", errx.TypeExternal, http.StatusBadGateway, "El servicio de generación no está disponible")

func ErrGenerationFailed() *errx.Error {
	return ErrRegistry.New(CodeGenerationFailed)
}
