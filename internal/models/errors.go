package models

import "errors"

// ErrNotFound is returned when a story or an audio file does not exist
var ErrNotFound = errors.New("not found")

type JSONErrorData struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
