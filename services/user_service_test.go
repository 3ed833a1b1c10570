package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSetup(t *testing.T) {
	in := SetupInput{Username: "  jane_doe-1 ", Gender: "Female", Age: 28}
	require.NoError(t, ValidateSetup(&in))
	assert.Equal(t, "jane_doe-1", in.Username)
	assert.Equal(t, "female", in.Gender)

	bad := []SetupInput{
		{Username: "jo", Gender: "male", Age: 20},
		{Username: strings.Repeat("a", 31), Gender: "male", Age: 20},
		{Username: "jane doe", Gender: "male", Age: 20},
		{Username: "jane", Gender: "", Age: 20},
		{Username: "jane", Gender: "robot", Age: 20},
		{Username: "jane", Gender: "other", Age: 9},
		{Username: "jane", Gender: "other", Age: 121},
	}
	for _, b := range bad {
		b := b
		assert.ErrorIs(t, ValidateSetup(&b), ErrValidation, "%+v", b)
	}

	edge := SetupInput{Username: "abc", Gender: "other", Age: 120}
	assert.NoError(t, ValidateSetup(&edge))
}
