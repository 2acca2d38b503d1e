package gemini

import "github.com/phrazzld/scry-study/internal/generation"

// promptData is the input of the prompt template.
type promptData struct {
	Text  string
	Count int
}

// responseSchema is the JSON document the model is asked to produce.
type responseSchema struct {
	Cards []generation.Draft `json:"cards"`
}
