package engine

import (
	"fmt"
	"strings"

	"tripmate/internal/index"
	"tripmate/internal/memory"
)

// promptTemplate is the fixed answer-synthesis template. Slots: retrieved
// context, prior turns, new query.
const promptTemplate = `You are a helpful travel assistant. Use the following pieces of context to answer the user's question.
If you don't know the answer, just say that you don't know, don't try to make up an answer.

Context: %s
Chat History: %s
Question: %s
Answer:`

// buildPrompt fills the template with the retrieved chunks, the transcript
// in insertion order, and the query.
func buildPrompt(chunks []index.Chunk, history []memory.Turn, query string) string {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	contextText := strings.Join(texts, "\n\n")

	var sb strings.Builder
	for _, turn := range history {
		sb.WriteString(roleLabel(turn.Role))
		sb.WriteString(": ")
		sb.WriteString(turn.Text)
		sb.WriteString("\n")
	}
	historyText := strings.TrimRight(sb.String(), "\n")

	return fmt.Sprintf(promptTemplate, contextText, historyText, query)
}

func roleLabel(role string) string {
	switch role {
	case memory.RoleUser:
		return "User"
	case memory.RoleAssistant:
		return "Assistant"
	default:
		return role
	}
}
