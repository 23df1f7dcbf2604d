package errors

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotOwner       = errors.New("caller is not the registry owner")
	ErrGrantNotFound  = errors.New("caller grant not found")
)
