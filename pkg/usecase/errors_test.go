package usecase_test

import (
	"errors"
	"testing"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func errorsAs(err error, target any) bool {
	return errors.As(err, target)
}

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	all := []error{
		usecase.ErrUnauthorized,
		usecase.ErrForbidden,
		usecase.ErrConflict,
		usecase.ErrOpportunityClosed,
		usecase.ErrUploadDisabled,
	}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			gt.Bool(t, errors.Is(a, b)).False()
		}
	}
}
