package export

import "errors"

var (
	ErrNoQuiz      = errors.New("no quiz questions to export")
	ErrNoChat      = errors.New("no chat history to export")
	ErrUnknownMode = errors.New("unknown export type")
)
