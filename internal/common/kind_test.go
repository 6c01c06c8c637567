package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollapse_ExposesOnlyKind(t *testing.T) {
	cause := fmt.Errorf("lookup: %w", ErrTokenExpired)
	err := Collapse(ErrorUnauthorized, cause)

	assert.ErrorIs(t, err, ErrorUnauthorized)
	assert.NotErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, "unauthorized", err.Error())
}

func TestCauseOf(t *testing.T) {
	cause := errors.New("db down")

	assert.Equal(t, cause, CauseOf(Collapse(ErrorUnauthorized, cause)))
	assert.Equal(t, cause, CauseOf(fmt.Errorf("wrapped: %w", Collapse(ErrorUnauthorized, cause))))
	assert.Equal(t, cause, CauseOf(cause))
	assert.Nil(t, CauseOf(nil))
}

func TestCauseOf_NilCauseFallsBackToErr(t *testing.T) {
	err := Collapse(ErrorUnauthorized, nil)
	assert.Equal(t, err, CauseOf(err))
}
