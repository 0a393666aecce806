package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimitsWithDefaults(t *testing.T) {
	tests := []struct {
		name   string
		limits Limits
		want   Limits
	}{
		{
			name:   "zero value",
			limits: Limits{},
			want:   Limits{MaxMessageSize: defaultMaxMessageSize, PongWait: defaultPongWait, WriteWait: defaultWriteWait},
		},
		{
			name:   "negative waits",
			limits: Limits{MaxMessageSize: 10, PongWait: -time.Second, WriteWait: -time.Second},
			want:   Limits{MaxMessageSize: 10, PongWait: defaultPongWait, WriteWait: defaultWriteWait},
		},
		{
			name:   "explicit values kept",
			limits: Limits{MaxMessageSize: 512, PongWait: 2 * time.Second, WriteWait: time.Second},
			want:   Limits{MaxMessageSize: 512, PongWait: 2 * time.Second, WriteWait: time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.limits.withDefaults()
			assert.Equal(t, tt.want, got)
			assert.Greater(t, got.pingPeriod(), time.Duration(0))
		})
	}
}
