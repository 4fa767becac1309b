package filter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rebeliceyang/lazycodex/internal/models"
)

var (
	ErrUnknownField      = errors.New("unknown field")
	ErrIllegalComparator = errors.New("comparator not allowed for field type")
	ErrNullValue         = errors.New("value must be null exactly when the comparator is a null test")
	ErrValueType         = errors.New("value does not match field type")
)

var comparatorLabels = map[models.Comparator]string{
	models.CmpILike:          "Contains",
	models.CmpLike:           "Case Sensitive Contains",
	models.CmpEqual:          "Equals",
	models.CmpNotEqual:       "Does Not Equals",
	models.CmpIsNull:         "Does Not Exist",
	models.CmpIsNotNull:      "Exists",
	models.CmpGreater:        ">",
	models.CmpGreaterOrEqual: ">=",
	models.CmpLess:           "<",
	models.CmpLessOrEqual:    "<=",
	models.CmpOverlap:        "Overlaps",
	models.CmpContains:       "Contains All",
	models.CmpContainedBy:    "Contained By",
}

// ComparatorsFor returns the comparators allowed for a field type
func ComparatorsFor(t models.FieldType) []models.Comparator {
	switch t {
	case models.FieldString:
		return []models.Comparator{
			models.CmpILike,
			models.CmpEqual, models.CmpNotEqual,
			models.CmpIsNull, models.CmpIsNotNull,
		}
	case models.FieldNumber:
		return []models.Comparator{
			models.CmpEqual, models.CmpNotEqual,
			models.CmpGreater, models.CmpGreaterOrEqual,
			models.CmpLess, models.CmpLessOrEqual,
			models.CmpIsNull, models.CmpIsNotNull,
		}
	case models.FieldBoolean:
		return []models.Comparator{
			models.CmpEqual, models.CmpNotEqual,
			models.CmpIsNull, models.CmpIsNotNull,
		}
	case models.FieldStringArray:
		return []models.Comparator{
			models.CmpOverlap, models.CmpContains, models.CmpContainedBy,
			models.CmpEqual, models.CmpNotEqual,
		}
	default:
		return nil
	}
}

// IsLegal reports whether c may be used on a field of type t
func IsLegal(t models.FieldType, c models.Comparator) bool {
	for _, legal := range ComparatorsFor(t) {
		if legal == c {
			return true
		}
	}
	return false
}

// Label returns the human readable name of a comparator
func Label(c models.Comparator) string {
	if l, ok := comparatorLabels[c]; ok {
		return l
	}
	return string(c)
}

// Defaults holds the (comparator, value) pairs a clause is reset to when its field changes
type Defaults struct {
	// NumericComparator is used for number fields; ">=" unless configured otherwise
	NumericComparator models.Comparator
}

// DefaultResets returns the standard reset table
func DefaultResets() Defaults {
	return Defaults{NumericComparator: models.CmpGreaterOrEqual}
}

// For returns the reset comparator and value of a field type
func (d Defaults) For(t models.FieldType) (models.Comparator, any) {
	switch t {
	case models.FieldNumber:
		cmp := d.NumericComparator
		if !IsLegal(models.FieldNumber, cmp) || cmp.IsNullTest() {
			cmp = models.CmpGreaterOrEqual
		}
		return cmp, float64(1)
	case models.FieldBoolean:
		return models.CmpEqual, true
	case models.FieldStringArray:
		return models.CmpOverlap, []string{}
	default:
		return models.CmpILike, ""
	}
}

// NewClause builds a fresh clause on field with that field's defaults
func (d Defaults) NewClause(fields models.FieldSet, field string) (models.FilterClause, error) {
	desc, ok := fields.Lookup(field)
	if !ok {
		return models.FilterClause{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	cmp, value := d.For(desc.Type)
	return models.FilterClause{Field: field, Comparator: cmp, Value: value}, nil
}

// Reset moves clause to newField with the comparator and value defaults of
// the new field's type. The old clause is left untouched.
func (d Defaults) Reset(fields models.FieldSet, clause models.FilterClause, newField string) (models.FilterClause, error) {
	next, err := d.NewClause(fields, newField)
	if err != nil {
		return clause, err
	}
	return next, nil
}

// SetComparator changes the comparator of clause, keeping the null-value invariant
func (d Defaults) SetComparator(fields models.FieldSet, clause models.FilterClause, cmp models.Comparator) (models.FilterClause, error) {
	desc, ok := fields.Lookup(clause.Field)
	if !ok {
		return clause, fmt.Errorf("%w: %q", ErrUnknownField, clause.Field)
	}
	if !IsLegal(desc.Type, cmp) {
		return clause, fmt.Errorf("%w: %s on %s field %q", ErrIllegalComparator, cmp, desc.Type, desc.Name)
	}
	out := clause.Clone()
	out.Comparator = cmp
	switch {
	case cmp.IsNullTest():
		out.Value = nil
	case clause.Comparator.IsNullTest() || out.Value == nil:
		_, out.Value = d.For(desc.Type)
	}
	return out, nil
}

// SetValue parses raw input for the clause's field type and stores it
func SetValue(fields models.FieldSet, clause models.FilterClause, raw string) (models.FilterClause, error) {
	desc, ok := fields.Lookup(clause.Field)
	if !ok {
		return clause, fmt.Errorf("%w: %q", ErrUnknownField, clause.Field)
	}
	if clause.Comparator.IsNullTest() {
		return clause, fmt.Errorf("%w: %s takes no value", ErrNullValue, clause.Comparator)
	}
	v, err := ParseValue(desc.Type, raw)
	if err != nil {
		return clause, err
	}
	out := clause
	out.Value = v
	return out, nil
}

// ParseValue converts user input into the value representation of a field type
func ParseValue(t models.FieldType, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch t {
	case models.FieldNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil || !finite(n) {
			return nil, fmt.Errorf("%w: %q is not a number", ErrValueType, raw)
		}
		return n, nil
	case models.FieldBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrValueType, raw)
		}
		return b, nil
	case models.FieldStringArray:
		out := []string{}
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	default:
		return raw, nil
	}
}

// NormalizeValue maps values decoded from JSON onto the canonical representation:
// integers become float64 and arrays of strings become []string.
func NormalizeValue(v any) any {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case float32:
		return float64(val)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return v
			}
			out = append(out, s)
		}
		return out
	default:
		return v
	}
}

// Validate checks a clause against the field set
func Validate(fields models.FieldSet, clause models.FilterClause) error {
	desc, ok := fields.Lookup(clause.Field)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, clause.Field)
	}
	if !IsLegal(desc.Type, clause.Comparator) {
		return fmt.Errorf("%w: %s on %s field %q", ErrIllegalComparator, clause.Comparator, desc.Type, desc.Name)
	}
	if clause.Comparator.IsNullTest() != (clause.Value == nil) {
		return fmt.Errorf("%w: %s %s %v", ErrNullValue, desc.Name, clause.Comparator, clause.Value)
	}
	if clause.Value == nil {
		return nil
	}
	if !valueMatches(desc.Type, NormalizeValue(clause.Value)) {
		return fmt.Errorf("%w: %v for %s field %q", ErrValueType, clause.Value, desc.Type, desc.Name)
	}
	return nil
}

func valueMatches(t models.FieldType, v any) bool {
	switch t {
	case models.FieldNumber:
		n, ok := v.(float64)
		return ok && finite(n)
	case models.FieldBoolean:
		_, ok := v.(bool)
		return ok
	case models.FieldStringArray:
		_, ok := v.([]string)
		return ok
	default:
		_, ok := v.(string)
		return ok
	}
}

// finite rejects NaN and infinities, which JSON cannot carry
func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}
