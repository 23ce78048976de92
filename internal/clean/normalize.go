// Package clean implements the cleaning core: per-field normalization,
// the ordered validation rule sets for customers and orders, and the
// engine that applies them over a whole raw batch.
package clean

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"salesetl/internal/schema"
)

// Kind classifies a normalization failure. The values double as discard
// reason tags in the report histogram.
type Kind string

const (
	NullOrMissing   Kind = "NullOrMissing"
	TypeMismatch    Kind = "TypeMismatch"
	OutOfRange      Kind = "OutOfRange"
	PatternMismatch Kind = "PatternMismatch"
)

// Failure is a typed per-field normalization failure.
type Failure struct {
	Field string
	Kind  Kind
}

// Error implements error.
func (f *Failure) Error() string {
	return fmt.Sprintf("field %q: %s", f.Field, f.Kind)
}

func fail(field string, kind Kind) *Failure { return &Failure{Field: field, Kind: kind} }

// emailPattern enforces local@domain.tld where the domain carries at least
// one internal dot and the top-level segment is 2+ letters.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*\.[A-Za-z]{2,}$`)

// Text trims the raw value; an absent value or one that is empty after
// trimming is NullOrMissing.
func Text(field string, v any) (string, *Failure) {
	s := strings.TrimSpace(asString(v))
	if s == "" {
		return "", fail(field, NullOrMissing)
	}
	return s, nil
}

// Email trims and lower-cases, then checks the address grammar. With
// strict=false only the non-empty check applies (email_validation=false).
func Email(field string, v any, strict bool) (string, *Failure) {
	s, f := Text(field, v)
	if f != nil {
		return "", f
	}
	s = strings.ToLower(s)
	if strict && !emailPattern.MatchString(s) {
		return "", fail(field, PatternMismatch)
	}
	return s, nil
}

// Date parses against ISO 2006-01-02 first, then any extra layouts, in
// order. Unparsable input is TypeMismatch.
func Date(field string, v any, layouts []string) (time.Time, *Failure) {
	s, f := Text(field, v)
	if f != nil {
		return time.Time{}, f
	}
	if t, err := time.Parse(schema.DateLayout, s); err == nil {
		return t, nil
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fail(field, TypeMismatch)
}

// Money parses a non-negative fixed-point amount with at most two
// fractional digits into integer cents. A negative amount is OutOfRange;
// anything unparsable (including excess precision) is TypeMismatch.
func Money(field string, v any) (schema.Cents, *Failure) {
	s, f := Text(field, v)
	if f != nil {
		return 0, f
	}
	neg := strings.HasPrefix(s, "-")
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if neg {
		whole = whole[1:]
	}
	if whole == "" && frac == "" {
		return 0, fail(field, TypeMismatch)
	}
	if len(frac) > 2 {
		return 0, fail(field, TypeMismatch)
	}
	if whole == "" {
		whole = "0"
	}
	// ParseUint rejects sign characters, so "1.-5" and "+12.00" fail
	// here rather than parsing as fabricated amounts.
	units, err := strconv.ParseUint(whole, 10, 63)
	if err != nil {
		return 0, fail(field, TypeMismatch)
	}
	cents := int64(units) * 100
	if frac != "" {
		// pad "4" -> 40 cents
		for len(frac) < 2 {
			frac += "0"
		}
		c, err := strconv.ParseUint(frac, 10, 64)
		if err != nil {
			return 0, fail(field, TypeMismatch)
		}
		cents += int64(c)
	}
	if neg {
		return 0, fail(field, OutOfRange)
	}
	return schema.Cents(cents), nil
}

// ID parses a positive integer identifier. Zero or negative is OutOfRange;
// unparsable input is TypeMismatch.
func ID(field string, v any) (int64, *Failure) {
	s, f := Text(field, v)
	if f != nil {
		return 0, f
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || strings.HasPrefix(s, "+") {
		return 0, fail(field, TypeMismatch)
	}
	if n <= 0 {
		return 0, fail(field, OutOfRange)
	}
	return n, nil
}

// asString converts common scalar types to string without fmt overhead;
// uncommon types fall back to fmt.Sprint.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case time.Time:
		return t.Format(schema.DateLayout)
	default:
		return fmt.Sprint(t)
	}
}
