package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCost(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 100_000}

	tests := []struct {
		model string
		want  float64
	}{
		{"claude-sonnet-4-5-20250929", 3.00 + 1.50},
		{"claude-haiku-4-5-20251001", 0.80 + 0.40},
		{"unknown-model", 0},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.InDelta(t, tt.want, usage.EstimateCost(tt.model), 1e-9)
		})
	}
}

func TestEstimateCostZeroUsage(t *testing.T) {
	assert.Zero(t, TokenUsage{}.EstimateCost("claude-sonnet-4-5-20250929"))
}
