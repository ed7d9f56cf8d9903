package importer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateImportSchema checks the schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateTags(schema)...)
	errs = append(errs, validateShifts(schema.Shifts)...)

	machineRefs := make(map[string]bool)
	errs = append(errs, validateMachines(schema.Machines, machineRefs)...)
	errs = append(errs, validateRequests(schema.Requests, machineRefs)...)

	return errs
}

// validateTags runs the struct tag rules and reports each failure under
// its file path, e.g. requests[2].quantity.
func validateTags(schema *ImportSchema) []error {
	err := validate.Struct(schema)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []error{err}
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s %s", fieldPath(fe), tagMessage(fe)))
	}
	return errs
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "hexcolor":
		return fmt.Sprintf("must be a hex color, got %q", fe.Value())
	default:
		return fmt.Sprintf("failed %q", fe.Tag())
	}
}

func validateShifts(shifts []ShiftImport) []error {
	var errs []error
	names := make(map[string]bool)

	for i, s := range shifts {
		prefix := fmt.Sprintf("shifts[%d]", i)

		if s.Name != "" {
			key := strings.ToLower(s.Name)
			if names[key] {
				errs = append(errs, fmt.Errorf("%s.name: duplicate shift %q", prefix, s.Name))
			}
			names[key] = true
		}

		shift, parseErrs := parseShift(prefix, s)
		if len(parseErrs) > 0 {
			errs = append(errs, parseErrs...)
			continue
		}
		if s.Start == "" || s.End == "" {
			continue
		}
		if err := shift.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
	}
	return errs
}

// parseShift parses the HH:MM fields of s. Empty fields are left to the
// tag rules.
func parseShift(prefix string, s ShiftImport) (domain.Shift, []error) {
	var errs []error
	parse := func(field, v string) domain.TimeOfDay {
		if v == "" {
			return 0
		}
		t, err := domain.ParseTimeOfDay(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", prefix, field, err))
		}
		return t
	}

	shift := domain.Shift{
		Name:    s.Name,
		Start:   parse("start", s.Start),
		End:     parse("end", s.End),
		Working: domain.BoolFromPtrWithDefault(true, s.Working),
		Color:   s.Color,
	}
	for j, p := range s.Pauses {
		shift.Pauses = append(shift.Pauses, domain.Pause{
			Start: parse(fmt.Sprintf("pauses[%d].start", j), p.Start),
			End:   parse(fmt.Sprintf("pauses[%d].end", j), p.End),
		})
	}
	return shift, errs
}

func validateMachines(machines []MachineImport, machineRefs map[string]bool) []error {
	var errs []error
	names := make(map[string]bool)

	for i, m := range machines {
		prefix := fmt.Sprintf("machines[%d]", i)

		if m.Ref != "" {
			if machineRefs[m.Ref] {
				errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, m.Ref))
			}
			machineRefs[m.Ref] = true
		}
		if m.Name != "" {
			key := strings.ToLower(m.Name)
			if names[key] {
				errs = append(errs, fmt.Errorf("%s.name: duplicate machine %q", prefix, m.Name))
			}
			names[key] = true
		}

		items := make(map[string]bool)
		for j, su := range m.Setups {
			if su.ItemID == "" {
				continue
			}
			if items[su.ItemID] {
				errs = append(errs, fmt.Errorf("%s.setups[%d].item_id: duplicate item %q", prefix, j, su.ItemID))
			}
			items[su.ItemID] = true
		}
	}
	return errs
}

func validateRequests(requests []RequestImport, machineRefs map[string]bool) []error {
	var errs []error
	refs := make(map[string]bool)

	for i, r := range requests {
		prefix := fmt.Sprintf("requests[%d]", i)

		if r.Ref != "" {
			if refs[r.Ref] {
				errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, r.Ref))
			}
			refs[r.Ref] = true
		}
		if r.MachineRef != "" && !machineRefs[r.MachineRef] {
			errs = append(errs, fmt.Errorf("%s.machine_ref: ref %q not found in machines", prefix, r.MachineRef))
		}

		if r.ProductionTimePerUnit != "" {
			rate, err := decimal.NewFromString(string(r.ProductionTimePerUnit))
			switch {
			case err != nil:
				errs = append(errs, fmt.Errorf("%s.production_time_per_unit: invalid number %q", prefix, r.ProductionTimePerUnit))
			case !rate.IsPositive():
				errs = append(errs, fmt.Errorf("%s.production_time_per_unit: %w", prefix, domain.ErrInvalidRate))
			}
		}

		if r.RequestedStart != nil && *r.RequestedStart != "" {
			if _, err := time.Parse(time.RFC3339, *r.RequestedStart); err != nil {
				errs = append(errs, fmt.Errorf("%s.requested_start: invalid timestamp %q (expected RFC3339)", prefix, *r.RequestedStart))
			}
		}
	}
	return errs
}
