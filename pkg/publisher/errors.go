package publisher

import "errors"

// errQueueFull is returned by Queue.Enqueue when the queue's bounded
// buffer (standing in for Rust's unbounded channel) is saturated.
var errQueueFull = errors.New("publisher: queue is full")
