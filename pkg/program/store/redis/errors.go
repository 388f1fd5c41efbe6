package redis

import "errors"

var (
	errClosed        = errors.New("redis: store is closed")
	errAlreadyExists = errors.New("redis: account already exists")
)
