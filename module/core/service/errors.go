package service

import "errors"

var (
	ErrUnknownDevice = errors.New("unknown device")
	ErrOutOfOrder    = errors.New("event precedes open session")
	ErrPersistence   = errors.New("work log persistence failed")
	ErrNoSession     = errors.New("no open session")
)
