package insights

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrValidation, fe.Field())
	case "min":
		return fmt.Errorf("%w: %s must have at least %s entries", ErrValidation, fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%w: %s must satisfy %s=%s (got %v)", ErrValidation, fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	}
}

// Validate checks weight and threshold ranges and rejects a risk threshold
// above the low-score threshold, which would make the risk ladder
// non-monotonic.
func (c ScoringConfig) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if c.Thresholds.RiskFlagThreshold > c.Thresholds.LowScoreThreshold {
		return fmt.Errorf("%w: riskFlagThreshold (%v) must not exceed lowScoreThreshold (%v)",
			ErrValidation, c.Thresholds.RiskFlagThreshold, c.Thresholds.LowScoreThreshold)
	}
	return nil
}

// Validate checks every topic and the rotation settings.
func (c MessagingConfig) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(c.Topics))
	for _, t := range c.Topics {
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate topic id %q", ErrValidation, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

func (c Customer) Validate() error {
	return validateStruct(c)
}
