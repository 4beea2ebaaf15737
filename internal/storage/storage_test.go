package storage

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestPersistenceError(t *testing.T) {
	err := Wrap("load", "slot1", ErrNotFound)

	var pe *PersistenceError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "load", pe.Op)
	assert.Equal(t, "slot1", pe.Name)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, `load save "slot1": save not found`, err.Error())
}

func TestPersistenceError_NoName(t *testing.T) {
	err := Wrap("list", "", errors.New("disk on fire"))
	assert.Equal(t, "list saves: disk on fire", err.Error())
}

func TestWrap_NilAndIdempotent(t *testing.T) {
	assert.NoError(t, Wrap("save", "x", nil))

	inner := Wrap("save", "x", errors.New("boom"))
	outer := Wrap("load", "y", fmt.Errorf("retrying: %w", inner))
	var pe *PersistenceError
	assert.True(t, errors.As(outer, &pe))
	assert.Equal(t, "save", pe.Op)
}

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"a", "slot1", "ash_ketchum", "red-2", strings.Repeat("x", 64)} {
		assert.NoError(t, ValidateName(ok), ok)
	}
	for _, bad := range []string{"", "-lead", "has space", "../etc", strings.Repeat("x", 65), "émile"} {
		assert.ErrorIs(t, ValidateName(bad), ErrInvalidName, bad)
	}
}

func TestPropertyValidateNameAcceptsGeneratedNames(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[a-z0-9][a-z0-9_-]{0,20}`).Draw(t, "name")
		assert.NoError(t, ValidateName(name))
	})
}
