// Package service turns storage notifications into freshly loaded objects.
// Notifications are MinIO bucket events delivered through Kafka.
package service

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/segmentio/kafka-go"
)

// Watcher reads bucket notifications from a MessageIterator, loads each
// created or updated object with a LoaderFunc and emits the result. Offsets
// are committed once every record of a message has been handled.
type Watcher[T any] struct {
	msgs   MessageIterator
	loader LoaderFunc[T]
	accept func(bucket, key string) bool
}

// NewWatcher builds a Watcher. accept filters objects by bucket and
// unescaped key; nil accepts all.
func NewWatcher[T any](msgs MessageIterator, loader LoaderFunc[T], accept func(bucket, key string) bool) *Watcher[T] {
	if accept == nil {
		accept = func(string, string) bool { return true }
	}
	return &Watcher[T]{msgs: msgs, loader: loader, accept: accept}
}

// Objects starts the watch loop. Undecodable messages and failed loads are
// logged and left uncommitted. The returned channel is closed when the
// message source is exhausted or ctx is canceled.
func (w *Watcher[T]) Objects(ctx context.Context) <-chan *FetchedObject[T] {
	out := make(chan *FetchedObject[T])
	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case msg, open := <-w.msgs.Messages():
				if !open {
					return
				}
				if !w.handle(ctx, out, msg) {
					return
				}
			}
		}
	}()
	return out
}

// handle processes one message and reports false once ctx is done.
func (w *Watcher[T]) handle(ctx context.Context, out chan<- *FetchedObject[T], msg kafka.Message) bool {
	var info notification.Info
	if err := json.Unmarshal(msg.Value, &info); err != nil {
		log.Printf("Error unmarshalling notification at offset %d: %v", msg.Offset, err)
		return true
	}

	ok := true
	for _, event := range info.Records {
		obj, err := w.fetch(ctx, event)
		if err != nil {
			log.Printf("Error loading %s/%s: %v", event.S3.Bucket.Name, event.S3.Object.Key, err)
			ok = false
			continue
		}
		if obj == nil {
			continue
		}
		select {
		case out <- obj:
		case <-ctx.Done():
			return false
		}
	}
	if !ok {
		return true
	}

	if err := w.msgs.CommitOffset(ctx, msg); err != nil {
		log.Printf("Failed to commit offset: %v", err)
	}
	return true
}

// fetch returns nil for records whose key is filtered out.
func (w *Watcher[T]) fetch(ctx context.Context, event notification.Event) (*FetchedObject[T], error) {
	bucket := event.S3.Bucket.Name
	key, err := url.QueryUnescape(event.S3.Object.Key)
	if err != nil {
		return nil, err
	}
	if !w.accept(bucket, key) {
		return nil, nil
	}

	obj := &FetchedObject[T]{Bucket: bucket, Key: key, Event: event}
	if strings.HasPrefix(event.EventName, "s3:ObjectRemoved") {
		obj.Removed = true
		return obj, nil
	}

	obj.Data, err = w.loader(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	return obj, nil
}
