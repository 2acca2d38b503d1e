// Package gemini implements generation.Generator on top of Google's Gemini API.
//
// A Generator renders an embedded prompt template with the study text and
// the number of cards wanted, asks the model for a JSON document, and parses
// it into drafts. Transport failures are retried with exponential backoff and
// jitter. Safety blocks and malformed responses are permanent and returned
// immediately. All errors wrap the sentinels of the generation package.
package gemini
