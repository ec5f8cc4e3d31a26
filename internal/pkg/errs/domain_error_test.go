package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"lastmile/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError(t *testing.T) {
	template := errs.NewValidationError("Order.InvalidTransition", "invalid status transition")

	t.Run("formats code and message", func(t *testing.T) {
		assert.Equal(t, "Order.InvalidTransition: invalid status transition", template.Error())
	})

	t.Run("WithMessage keeps code and kind", func(t *testing.T) {
		err := template.WithMessage("cannot move order from %s to %s", "Delivered", "Cancelled")

		assert.Equal(t, template.Code, err.Code)
		assert.Equal(t, errs.KindValidation, err.Kind)
		assert.Equal(t, "cannot move order from Delivered to Cancelled", err.Message)
		assert.NotSame(t, template, err)
	})

	t.Run("errors.Is matches by code through wrapping", func(t *testing.T) {
		err := fmt.Errorf("handle: %w", template.WithMessage("detail"))

		require.ErrorIs(t, err, template)
		assert.NotErrorIs(t, err, errs.NewValidationError("Order.Other", "other"))
	})
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected errs.Kind
	}{
		{"domain validation", errs.NewValidationError("X.Y", "m"), errs.KindValidation},
		{"domain conflict", errs.NewConflictError("X.Y", "m"), errs.KindConflict},
		{"domain problem", errs.NewProblemError("X.Y", "m"), errs.KindProblem},
		{"not found", errs.NewObjectNotFoundError("order", "1"), errs.KindNotFound},
		{"version conflict", errs.NewVersionIsInvalidError("route", nil), errs.KindConflict},
		{"value required", errs.NewValueIsRequiredError("name"), errs.KindValidation},
		{"value invalid", errs.NewValueIsInvalidErrorWithCause("code", errors.New("bad")), errs.KindValidation},
		{"out of range", errs.NewValueIsOutOfRangeError("lat", 91, -90, 90), errs.KindValidation},
		{"plain error", errors.New("boom"), errs.KindProblem},
		{"nil", nil, errs.KindProblem},
		{
			"joined takes first classified",
			errors.Join(errs.NewValueIsRequiredError("a"), errors.New("b")),
			errs.KindValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, errs.KindOf(tc.err))
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "Route.DriverIsRequired", errs.CodeOf(errs.NewValidationError("Route.DriverIsRequired", "m")))
	assert.Equal(t, "General.NotFound", errs.CodeOf(errs.NewObjectNotFoundError("order", "1")))
	assert.Equal(t, "General.Conflict", errs.CodeOf(errs.NewVersionIsInvalidError("order", nil)))
	assert.Equal(t, "General.Validation", errs.CodeOf(errs.NewValueIsRequiredError("x")))
	assert.Equal(t, "General.Problem", errs.CodeOf(errors.New("boom")))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Validation", errs.KindValidation.String())
	assert.Equal(t, "NotFound", errs.KindNotFound.String())
	assert.Equal(t, "Conflict", errs.KindConflict.String())
	assert.Equal(t, "Problem", errs.KindProblem.String())
}
