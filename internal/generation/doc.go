// Package generation defines the boundary between the card generation flow and
// an external language model that drafts flashcards from study text. The
// Gemini implementation lives in internal/platform/gemini.
package generation
