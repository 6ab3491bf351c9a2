package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"patternforge/internal/common"
	"patternforge/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidID    = errors.New("id must be positive")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures a record id is positive.
func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return nil
}

// validatePattern validates a pattern before insertion.
func validatePattern(p *model.Pattern) error {
	if p == nil {
		return fmt.Errorf("%w: pattern", ErrNilParameter)
	}
	if p.Fingerprint == "" {
		return fmt.Errorf("%w: pattern missing fingerprint", common.ErrIntegrityViolation)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: pattern missing name", common.ErrIntegrityViolation)
	}
	if p.Structure == nil {
		return fmt.Errorf("%w: pattern missing structure", common.ErrIntegrityViolation)
	}
	if p.ComplexityScore < 1 || p.ComplexityScore > 5 {
		return fmt.Errorf("%w: complexity score %d out of range", common.ErrIntegrityViolation, p.ComplexityScore)
	}
	return nil
}

// validateFilter normalizes and validates a catalog filter, applying
// pagination defaults in place.
func validateFilter(f *model.PatternFilter) error {
	if f.Page < 0 || f.PageSize < 0 {
		return fmt.Errorf("%w: pagination must not be negative", common.ErrInvalidFilter)
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	if f.PageSize > 200 {
		f.PageSize = 200
	}
	if f.MinComplexity < 0 || f.MaxComplexity < 0 ||
		f.MinComplexity > 5 || f.MaxComplexity > 5 {
		return fmt.Errorf("%w: complexity bounds must be within 0..5", common.ErrInvalidFilter)
	}
	if f.MinComplexity > 0 && f.MaxComplexity > 0 && f.MinComplexity > f.MaxComplexity {
		return fmt.Errorf("%w: min complexity exceeds max", common.ErrInvalidFilter)
	}
	if f.Category != "" {
		valid := false
		for _, c := range model.Categories() {
			if string(c) == f.Category {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("%w: unknown category %q", common.ErrInvalidFilter, f.Category)
		}
	}
	return nil
}
