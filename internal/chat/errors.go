package chat

import "errors"

var (
	ErrNoHistory         = errors.New("no chat history for document")
	ErrEmptyMessage      = errors.New("message is required")
	ErrMissingDocumentID = errors.New("document id is required")
)
