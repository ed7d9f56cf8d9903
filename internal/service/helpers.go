package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/shopfloor/internal/domain"
)

// ErrInvalidInput is wrapped by every validation failure a service reports
// before touching storage.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}

// derefShifts copies repository results into the value slice the calendar takes.
func derefShifts(in []*domain.Shift) []domain.Shift {
	out := make([]domain.Shift, 0, len(in))
	for _, s := range in {
		out = append(out, *s)
	}
	return out
}
