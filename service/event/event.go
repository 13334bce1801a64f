// Package event carries typed notification events (for example approval
// state-transition notices) from producers to an observing listener over a
// messaging queue. Events are advisory: losing one never affects the
// approval cycle.
package event

import (
	"time"

	"github.com/wavetune/wavetune/internal/clock"
	"github.com/wavetune/wavetune/internal/idgen"
)

type Event[T any] struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](data T) *Event[T] {
	return &Event[T]{
		ID:        idgen.New(),
		CreatedAt: clock.Now(),
		Data:      data,
	}
}
