package generation_test

import (
	"testing"

	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/stretchr/testify/assert"
)

func TestDraftValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		draft generation.Draft
		want  bool
	}{
		{"both sides", generation.Draft{Front: "Q", Back: "A"}, true},
		{"missing front", generation.Draft{Back: "A"}, false},
		{"blank back", generation.Draft{Front: "Q", Back: "  \n"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.draft.Valid())
		})
	}
}
