package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverall(t *testing.T) {
	wwa := 1.0
	tests := []struct {
		name string
		rep  Reputation
		want float64
	}{
		{"perfect score", Reputation{ContributionAvg: 10, CommunicationAvg: 10, WouldWorkAgainRatio: &wwa}, 10.0},
		{"no signal", Reputation{}, 0.0},
		{"nil wwa treated as zero", Reputation{ContributionAvg: 10, CommunicationAvg: 10}, 10.0 * 2 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overall(tt.rep)
			assert.InDelta(t, tt.want, got, 0.01)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 10.0)
		})
	}
}
