package chatsrv

import (
	"strings"

	"github.com/Abraxas-365/confidant/pkg/profile"
)

const titleSystemPrompt = `Summarize the following conversation into a very short title in Arabic, 5 words at most. Respond with the title only, no quotes, no punctuation around it.`

const personaBasePrompt = `You are a warm, empathetic personal confidant. You listen without judgment, remember what matters to the user and gently help them reflect. Always respond in Arabic.`

// buildPersonaPrompt arma el prompt de sistema de la conversación: persona
// base, reglas de trato según las preferencias y el bloque de memoria con
// los hechos relevantes
func buildPersonaPrompt(settings profile.Settings, factTexts []string) string {
	var b strings.Builder
	b.WriteString(personaBasePrompt)
	b.WriteString("\n\n")

	if settings.LinguisticGender == "female" {
		b.WriteString("Address the user with feminine Arabic grammar (مخاطبة المؤنث).\n")
	} else {
		b.WriteString("Address the user with masculine Arabic grammar (مخاطبة المذكر).\n")
	}

	switch settings.ResponseLength {
	case "short":
		b.WriteString("Keep your responses brief: one or two sentences.\n")
	case "long":
		b.WriteString("You may elaborate when the topic deserves it.\n")
	default:
		b.WriteString("Keep your responses at a moderate length.\n")
	}

	if len(factTexts) > 0 {
		b.WriteString("\nThings you remember about the user (use them naturally, never recite them):\n")
		for _, text := range factTexts {
			b.WriteString("- ")
			b.WriteString(text)
			b.WriteString("\n")
		}
	}

	return b.String()
}
