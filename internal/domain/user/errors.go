package user

import "errors"

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrEmployeeIDRequired = errors.New("employee ID is required")
	ErrUnknownRole        = errors.New("unknown role")
)
