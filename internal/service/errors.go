package service

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidPersona = errors.New("invalid or missing persona")
	ErrInvalidScore   = errors.New("score must be between 0 and 100")
	ErrInvalidService = errors.New("invalid service value")
	ErrReportNotReady = errors.New("report is not ready")
	ErrMissingField   = errors.New("missing required field")
)
