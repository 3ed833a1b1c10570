package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestErrorKinds(t *testing.T) {
	err := conflict(msgAlreadyPending)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, msgAlreadyPending, err.Error())

	wrapped := fmt.Errorf("join: %w", err)
	assert.ErrorIs(t, wrapped, ErrConflict)

	assert.ErrorIs(t, notFoundOr(gorm.ErrRecordNotFound, "gone"), ErrNotFound)
	other := errors.New("db down")
	assert.Equal(t, other, notFoundOr(other, "gone"))
}
