package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// NewFunc returns a new globally unique identifier. Override in tests.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier.
func New() string { return NewFunc() }

// Sequence installs a deterministic generator yielding prefix-1, prefix-2, ...
// and returns a function restoring the previous one.
func Sequence(prefix string) func() {
	prev := NewFunc
	var n atomic.Uint64
	NewFunc = func() string { return fmt.Sprintf("%s-%d", prefix, n.Add(1)) }
	return func() { NewFunc = prev }
}
