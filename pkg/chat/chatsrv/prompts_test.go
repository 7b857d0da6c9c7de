package chatsrv

import (
	"testing"

	"github.com/Abraxas-365/confidant/pkg/profile"
	"github.com/stretchr/testify/assert"
)

func TestBuildPersonaPromptGenderRule(t *testing.T) {
	female := buildPersonaPrompt(profile.Settings{LinguisticGender: "female", ResponseLength: "medium"}, nil)
	assert.Contains(t, female, "feminine")

	male := buildPersonaPrompt(profile.DefaultSettings(), nil)
	assert.Contains(t, male, "masculine")
}

func TestBuildPersonaPromptLengthRule(t *testing.T) {
	short := buildPersonaPrompt(profile.Settings{LinguisticGender: "male", ResponseLength: "short"}, nil)
	assert.Contains(t, short, "brief")

	long := buildPersonaPrompt(profile.Settings{LinguisticGender: "male", ResponseLength: "long"}, nil)
	assert.Contains(t, long, "elaborate")
}

func TestBuildPersonaPromptInjectsFacts(t *testing.T) {
	facts := []string{"المهنة: مهندس برمجيات", "الهوايات: الرسم"}
	prompt := buildPersonaPrompt(profile.DefaultSettings(), facts)

	assert.Contains(t, prompt, "- المهنة: مهندس برمجيات")
	assert.Contains(t, prompt, "- الهوايات: الرسم")
}

func TestBuildPersonaPromptWithoutFactsOmitsMemoryBlock(t *testing.T) {
	prompt := buildPersonaPrompt(profile.DefaultSettings(), nil)
	assert.NotContains(t, prompt, "Things you remember")
}

func TestSanitizeTitle(t *testing.T) {
	assert.Equal(t, "بداية جديدة", sanitizeTitle("  \"بداية جديدة\"\n"))
	assert.Equal(t, "عنوان", sanitizeTitle("«عنوان»"))
	assert.Equal(t, "سطر أول", sanitizeTitle("سطر أول\nسطر ثان"))
}
