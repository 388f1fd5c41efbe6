package memory

import "errors"

var (
	errClosed        = errors.New("memory: store is closed")
	errAlreadyExists = errors.New("memory: account already exists")
)
