package model

import "github.com/pkg/errors"

var (
	ErrMalformedInput       = errors.New("malformed input")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrOutputExists         = errors.New("output file exists")
)
