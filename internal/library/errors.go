package library

import "errors"

var (
	ErrInvalidGame  = errors.New("invalid game")
	ErrInvalidStats = errors.New("invalid game stats")
	ErrExists       = errors.New("game already exists")
	ErrClosed       = errors.New("library closed")
)
