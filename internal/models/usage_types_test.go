package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemaining(t *testing.T) {
	tests := []struct {
		name string
		rec  UsageRecord
		want int
	}{
		{"unused", UsageRecord{UsageCount: 0, MaxUsage: 10}, 10},
		{"partially used", UsageRecord{UsageCount: 3, MaxUsage: 10}, 7},
		{"at cap", UsageRecord{UsageCount: 10, MaxUsage: 10}, 0},
		{"over cap", UsageRecord{UsageCount: 12, MaxUsage: 10}, 0},
		{"premium ignores cap", UsageRecord{UsageCount: 50, MaxUsage: 10, IsPremium: true}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.Remaining())
		})
	}
}
