package models

import "errors"

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrInvalidEvent   = errors.New("invalid event data")
	ErrInvalidComment = errors.New("invalid comment")
)

// ErrorBody is the JSON shape of every 4xx answer.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func ErrorResponse(msg string) ErrorBody {
	return ErrorBody{Error: msg}
}
