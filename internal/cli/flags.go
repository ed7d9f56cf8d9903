package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/spf13/pflag"
)

// timeOfDayValue is a pflag.Value accepting HH:MM.
type timeOfDayValue struct {
	tod *domain.TimeOfDay
	set bool
}

var _ pflag.Value = (*timeOfDayValue)(nil)

func newTimeOfDayValue(p *domain.TimeOfDay) *timeOfDayValue {
	return &timeOfDayValue{tod: p}
}

func (v *timeOfDayValue) String() string {
	if v == nil || v.tod == nil || !v.set {
		return ""
	}
	return v.tod.String()
}

func (v *timeOfDayValue) Set(s string) error {
	tod, err := domain.ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*v.tod = tod
	v.set = true
	return nil
}

func (v *timeOfDayValue) Type() string { return "HH:MM" }

// pauseListValue collects repeated HH:MM-HH:MM flags.
type pauseListValue struct {
	pauses *[]domain.Pause
}

var _ pflag.Value = (*pauseListValue)(nil)

func (v *pauseListValue) String() string {
	if v == nil || v.pauses == nil {
		return ""
	}
	parts := make([]string, 0, len(*v.pauses))
	for _, p := range *v.pauses {
		parts = append(parts, p.Start.String()+"-"+p.End.String())
	}
	return strings.Join(parts, ",")
}

func (v *pauseListValue) Set(s string) error {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return fmt.Errorf("pause %q: expected HH:MM-HH:MM", s)
	}
	start, err := domain.ParseTimeOfDay(from)
	if err != nil {
		return err
	}
	end, err := domain.ParseTimeOfDay(to)
	if err != nil {
		return err
	}
	*v.pauses = append(*v.pauses, domain.Pause{Start: start, End: end})
	return nil
}

func (v *pauseListValue) Type() string { return "HH:MM-HH:MM" }

// instantValue is a pflag.Value for an optional RFC3339 instant.
type instantValue struct {
	t **time.Time
}

var _ pflag.Value = (*instantValue)(nil)

func (v *instantValue) String() string {
	if v == nil || v.t == nil || *v.t == nil {
		return ""
	}
	return (*v.t).Format(time.RFC3339)
}

func (v *instantValue) Set(s string) error {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("expected RFC3339 (2006-01-02T15:04:05Z07:00): %w", err)
	}
	*v.t = &t
	return nil
}

func (v *instantValue) Type() string { return "RFC3339" }
