package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-1, 0, 1))
	assert.Equal(t, 1.0, clamp(2, 0, 1))
	assert.Equal(t, 0.5, clamp(0.5, 0, 1))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name          string
		contribution  *int
		communication *int
		wwa           bool
		want          float64
	}{
		{"all max", ptr(10), ptr(10), true, 1.0},
		{"all zero", ptr(0), ptr(0), false, 0.0},
		{"missing axes coerce to zero", nil, nil, true, 1.0 / 3},
		{"out of range clamps", ptr(15), ptr(-5), false, (1.0 + 0.0) / 3},
		{"mixed", ptr(10), ptr(0), false, (1.0 + 0.0 + 0.0) / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(tt.contribution, tt.communication, tt.wwa)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
