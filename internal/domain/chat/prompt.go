package chat

import "strings"

const promptPreamble = "You are a helpful, friendly AI assistant. Answer concisely and accurately.\n\n"

// BuildPrompt renders the completion prompt from a fixed preamble, the
// ordered history window and the new user message. It is a pure function:
// identical inputs always produce byte identical output. History depth is
// bounded upstream; individual messages are never truncated.
func BuildPrompt(history []Turn, newMessage string) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	for _, turn := range history {
		label := "Assistant"
		if turn.Role == RoleUser {
			label = "User"
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	b.WriteString("User: ")
	b.WriteString(newMessage)
	b.WriteString("\nAssistant:")
	return b.String()
}
