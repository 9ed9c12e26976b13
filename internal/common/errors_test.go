package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	t.Run("wraps an underlying cause", func(t *testing.T) {
		err := NewUserError("Configuration is invalid", ErrInvalidConfig)

		assert.Equal(t, "Configuration is invalid: invalid configuration", err.Error())
		assert.ErrorIs(t, err, ErrInvalidConfig)

		var uerr *UserError
		assert.ErrorAs(t, err, &uerr)
		assert.Equal(t, "Configuration is invalid", uerr.UserMessage)
	})

	t.Run("stands alone without a cause", func(t *testing.T) {
		err := NewUserError("Nothing to sort", nil)
		assert.Equal(t, "Nothing to sort", err.Error())
	})
}

func TestNonRetryable(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NonRetryable(cause)

	var rerr *RetryableError
	assert.ErrorAs(t, err, &rerr)
	assert.False(t, rerr.Retryable)
	assert.ErrorIs(t, err, cause)
}
