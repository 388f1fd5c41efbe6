// Package publisher turns submitted MultipleUpdateMessages into chunked
// on-chain instructions.
//
// Grounded on original_source/price-publisher/src/data_feed_processor.rs's
// DataFeedProcessor: an unbounded channel feeding a single consumer loop
// (here: a buffered Go channel standing in for Rust's
// tokio::sync::mpsc::unbounded_channel, since Go channels are bounded by
// construction), chunked at DATA_FEED_CHUNK_SIZE, one transaction per
// chunk sharing the batch's signed root.
package publisher

import "github.com/Entangle-Protocol/udf-oracle-go/pkg/types"

// queueCapacity is generous rather than unbounded: a Go channel cannot
// be truly unbounded, and a slow consumer should eventually apply
// backpressure to callers instead of growing memory without limit.
const queueCapacity = 4096

// Queue is the publisher's single-consumer ingestion point for signed
// batches awaiting submission.
type Queue struct {
	messages chan types.MultipleUpdateMessage
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	return &Queue{messages: make(chan types.MultipleUpdateMessage, queueCapacity)}
}

// Enqueue submits msg for processing. It mirrors update_multiple_assets's
// FFI entry point: fire-and-forget from the caller's perspective.
func (q *Queue) Enqueue(msg types.MultipleUpdateMessage) error {
	select {
	case q.messages <- msg:
		return nil
	default:
		return errQueueFull
	}
}

// Messages exposes the receive side for Dispatcher.Run.
func (q *Queue) Messages() <-chan types.MultipleUpdateMessage {
	return q.messages
}

// Close closes the queue's channel. Any already-queued messages are
// still delivered to a draining consumer; an Enqueue after Close panics,
// since it sends on the closed channel.
func (q *Queue) Close() {
	close(q.messages)
}
