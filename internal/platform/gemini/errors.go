package gemini

import "errors"

// ErrEmptyText is returned when there is no study text to draft from.
var ErrEmptyText = errors.New("study text cannot be empty")
