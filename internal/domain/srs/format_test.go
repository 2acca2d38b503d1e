package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "1m"},
		{30 * time.Second, "1m"},
		{10 * time.Minute, "10m"},
		{59 * time.Minute, "59m"},
		{90 * time.Minute, "2h"},
		{3 * time.Hour, "3h"},
		{day, "1d"},
		{15 * day, "15d"},
		{364 * day, "364d"},
		{365 * day, "1y"},
		{548 * day, "1.5y"},
		{730 * day, "2y"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, FormatInterval(tc.in))
		})
	}
}
