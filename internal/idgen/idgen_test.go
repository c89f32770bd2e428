package idgen

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	id := New()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, New())
}

func TestSequence(t *testing.T) {
	restore := Sequence("snap")
	assert.Equal(t, "snap-1", New())
	assert.Equal(t, "snap-2", New())
	restore()
	_, err := uuid.Parse(New())
	assert.NoError(t, err)
}
