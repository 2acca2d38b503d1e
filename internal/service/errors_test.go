package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/scry-study/internal/store"
)

func TestServiceError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ServiceError
		expected string
	}{
		{
			name:     "with message and underlying error",
			err:      NewServiceError("scheduler", "get_due_cards", "count failed", errors.New("database connection failed")),
			expected: "scheduler service get_due_cards operation failed: count failed: database connection failed",
		},
		{
			name:     "without underlying error",
			err:      NewServiceError("quota", "reserve", "", nil),
			expected: "quota service reserve operation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestServiceError_ErrorsAs(t *testing.T) {
	t.Parallel()

	wrapped := NewServiceError("card_review", "submit_review", "update failed", store.ErrCardNotFound)

	var target *ServiceError
	assert.True(t, errors.As(error(wrapped), &target))
	assert.Equal(t, "card_review", target.Service)
	assert.ErrorIs(t, wrapped, store.ErrNotFound)
}

func TestStorageError(t *testing.T) {
	t.Parallel()

	t.Run("marks unknown failures as persistence", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("disk on fire")
		err := StorageError("quota", "reserve", "increment failed", cause)
		assert.ErrorIs(t, err, store.ErrPersistence)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("keeps an existing persistence error", func(t *testing.T) {
		t.Parallel()
		err := StorageError("quota", "reserve", "commit failed", store.ErrPersistence)
		assert.ErrorIs(t, err, store.ErrPersistence)
		assert.Equal(t, "quota service reserve operation failed: commit failed: persistence failure", err.Error())
	})
}
