package service

import (
	"context"

	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/segmentio/kafka-go"
)

// MessageIterator is a source of bucket notification messages, typically a
// kafkaclient.Consumer.
type MessageIterator interface {
	// Messages is closed by the implementation when the source is exhausted.
	Messages() <-chan kafka.Message

	// CommitOffset acknowledges that a message has been processed.
	CommitOffset(ctx context.Context, msg kafka.Message) error
}

// LoaderFunc loads and decodes the object a notification refers to. It must
// be read-only.
type LoaderFunc[T any] func(ctx context.Context, bucket, key string) (T, error)

// FetchedObject is one processed notification record.
type FetchedObject[T any] struct {
	Bucket string
	// Key is the unescaped object key.
	Key string
	// Removed is set for deletions, in which case Data is the zero value.
	Removed bool
	Data    T
	Event   notification.Event
}
