// Package form is the only place raw form values are handled. DecodeListing
// coerces and validates the untyped payload into a domain.ListingInput in a
// single pass, collecting every violated rule instead of stopping at the
// first.
package form

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/casalivre/listing-service/internal/listing/domain"
)

// FieldError is a single violated rule, addressed to the user.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Errors collects every rule violated by one payload.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, ", ")
}

// Upload is an opaque image blob from a multipart form. Content type and
// size are not validated here; object storage may still reject it.
type Upload struct {
	Filename string
	Data     []byte
}

// DecodeListing validates and coerces a listing form. On failure it returns
// an Errors value holding the full set of violations.
func DecodeListing(values url.Values) (domain.ListingInput, error) {
	var errs Errors

	in := domain.ListingInput{
		ID:           strings.TrimSpace(values.Get("id")),
		Address:      minLength(values, "address", 5, &errs),
		City:         minLength(values, "city", 3, &errs),
		StateCode:    exactLength(values, "state_code", 2, &errs),
		Description:  minLength(values, "description", 10, &errs),
		Bedrooms:     nonNegativeInt(values, "bedrooms", &errs),
		Bathrooms:    nonNegativeInt(values, "bathrooms", &errs),
		GarageSpaces: nonNegativeInt(values, "garage_spaces", &errs),
		TotalArea:    positiveDecimal(values, "total_area", &errs),
		BuiltArea:    positiveDecimal(values, "built_area", &errs),
		Price:        positiveDecimal(values, "price", &errs),
	}

	if len(errs) > 0 {
		return domain.ListingInput{}, errs
	}
	return in, nil
}

func minLength(values url.Values, field string, min int, errs *Errors) string {
	v := strings.TrimSpace(values.Get(field))
	if utf8.RuneCountInString(v) < min {
		*errs = append(*errs, FieldError{field, "must be at least " + strconv.Itoa(min) + " characters"})
	}
	return v
}

func exactLength(values url.Values, field string, n int, errs *Errors) string {
	v := strings.TrimSpace(values.Get(field))
	if utf8.RuneCountInString(v) != n {
		*errs = append(*errs, FieldError{field, "must be exactly " + strconv.Itoa(n) + " characters"})
	}
	return v
}

func nonNegativeInt(values url.Values, field string, errs *Errors) int {
	n, err := strconv.Atoi(strings.TrimSpace(values.Get(field)))
	if err != nil || n < 0 {
		*errs = append(*errs, FieldError{field, "must be a non-negative whole number"})
		return 0
	}
	return n
}

func positiveDecimal(values url.Values, field string, errs *Errors) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(values.Get(field)))
	if err != nil || !d.IsPositive() {
		*errs = append(*errs, FieldError{field, "must be a positive number"})
		return decimal.Zero
	}
	return d
}
