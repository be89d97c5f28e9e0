package documents

import "errors"

var (
	ErrNotFound       = errors.New("document not found")
	ErrInvalidID      = errors.New("invalid document id")
	ErrMissingFile    = errors.New("image file is required")
	ErrMissingPrompt  = errors.New("prompt is required")
	ErrAnalysisFailed = errors.New("analysis failed")
)
