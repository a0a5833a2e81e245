package models

import (
	"errors"
)

var (
	ErrResourceNotFound = errors.New("there is no")
	ErrUsernameTaken    = errors.New("this username is already taken")
)
