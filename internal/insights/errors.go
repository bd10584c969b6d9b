package insights

import "errors"

var (
	ErrConfigDisabled    = errors.New("scoring is disabled for this customer")
	ErrValidation        = errors.New("validation failed")
	ErrEmptyPopulation   = errors.New("no matching score records")
	ErrNotFound          = errors.New("not found")
	ErrNoEligibleTopics  = errors.New("no eligible topics")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
