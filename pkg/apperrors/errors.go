package apperrors

import "errors"

var (
	ErrUnknownReport   = errors.New("report not in query catalog")
	ErrInvalidTemplate = errors.New("invalid catalog query template")
)
