package gemini

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed prompts/flashcards.tmpl
var promptFS embed.FS

var promptTemplate = template.Must(template.ParseFS(promptFS, "prompts/flashcards.tmpl"))

// buildPrompt renders the flashcard prompt for text.
func buildPrompt(text string, count int) (string, error) {
	if text == "" {
		return "", ErrEmptyText
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, promptData{Text: text, Count: count}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
