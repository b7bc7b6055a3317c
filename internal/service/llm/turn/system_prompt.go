package turn

import (
	_ "embed"
	"strings"
	"text/template"

	"movierec/internal/config"
)

//go:embed system_prompt.tmpl
var systemPromptSource string

var systemPrompt = template.Must(template.New("system").Parse(systemPromptSource))

// ForceCardsSuffix is appended to user content when the caller asks for
// movie cards explicitly.
const ForceCardsSuffix = " Display your recommendations as movie cards. Do not recommend movies that I have already seen."

// SystemPrompt renders the persona prompt. history is the user's free-text
// watch history and may be empty.
func SystemPrompt(history string) string {
	var b strings.Builder
	// the template is static and its data always valid
	_ = systemPrompt.Execute(&b, struct {
		History      string
		StarterCount int
	}{History: history, StarterCount: config.ConversationStarterCount})
	return b.String()
}
