// Package event publishes kernel lifecycle events to subscribers.
package event

import (
	"time"

	"github.com/viant/kproc/internal/clock"
	"github.com/viant/kproc/internal/idgen"
)

// Context identifies where an event came from.
type Context struct {
	BootID string `json:"bootID"`
	Source string `json:"source"`
}

// Event wraps a payload with delivery metadata.
type Event[T any] struct {
	ID        string                 `json:"id"`
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

// NewEvent creates an event.
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		ID:        idgen.New(),
		Context:   context,
		CreatedAt: clock.Now(),
		Data:      data,
	}
}
