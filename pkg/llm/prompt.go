package llm

import (
	"strings"

	"github.com/lumora-ai/voicechat/pkg/history"
)

// BuildPrompt renders the system instruction and the conversation so far
// into a single completion prompt: one "<Role>: <content>" line per turn,
// closed with a bare "Assistant:" cue for the model to continue from.
func BuildPrompt(system string, turns []history.Turn) string {
	var b strings.Builder

	if system != "" {
		b.WriteString(system)
		b.WriteString("\n\n")
	}

	for _, t := range turns {
		b.WriteString(roleLabel(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteString("\n")
	}

	b.WriteString("Assistant:")
	return b.String()
}

func roleLabel(r history.Role) string {
	if r == history.RoleAssistant {
		return "Assistant"
	}

	return "User"
}
