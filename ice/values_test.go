package ice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFoundationBounds(t *testing.T) {
	_, err := NewFoundation("")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = NewFoundation(string(make([]byte, 33)))
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = NewFoundation("abc!def")
	assert.ErrorIs(t, err, ErrInvalidValue)

	f, err := NewFoundation("42")
	assert.NoError(t, err)
	assert.Equal(t, Foundation("42"), f)
}

func TestNewComponentIDBounds(t *testing.T) {
	_, err := NewComponentID(0)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = NewComponentID(257)
	assert.ErrorIs(t, err, ErrInvalidValue)

	c, err := NewComponentID(1)
	assert.NoError(t, err)
	assert.Equal(t, ComponentID(1), c)
}

func TestHostCandidatePriority(t *testing.T) {
	assert.Equal(t, Priority(2130706431), hostCandidatePriority)
}
