package kafkaclient

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Reader is the subset of *kafka.Reader the consumer needs.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer pumps messages from a Reader into a channel. Offsets are only
// committed when the caller asks for it.
type Consumer struct {
	reader   Reader
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	messages chan kafka.Message
	backoff  time.Duration
}

// NewConsumer reads topic as part of groupID from a single broker.
func NewConsumer(topic, groupID, broker string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
		// Offsets are committed explicitly after a snapshot was loaded.
		CommitInterval: 0,
		MinBytes:       1,
		MaxBytes:       1e6,
	})
	return newConsumer(reader)
}

func newConsumer(reader Reader) *Consumer {
	return &Consumer{
		reader:   reader,
		done:     make(chan struct{}),
		messages: make(chan kafka.Message),
		backoff:  time.Second,
	}
}

func (c *Consumer) Messages() <-chan kafka.Message {
	return c.messages
}

func (c *Consumer) CommitOffset(ctx context.Context, msg kafka.Message) error {
	log.Printf("Committing offset for topic=%s, partition=%d, offset=%d", msg.Topic, msg.Partition, msg.Offset)
	return c.reader.CommitMessages(ctx, msg)
}

// Start runs the read loop until ctx is canceled, Stop is called or the
// reader is closed. The Messages channel is closed when the loop exits.
func (c *Consumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(c.messages)

		log.Println("Starting Kafka consumer loop...")
		for {
			select {
			case <-ctx.Done():
				log.Println("Context canceled, stopping consumer loop.")
				return
			case <-c.done:
				log.Println("Shutdown signal received, stopping consumer loop.")
				return
			default:
			}

			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, io.EOF) || ctx.Err() != nil {
					return
				}
				log.Printf("Error reading message: %v", err)
				select {
				case <-time.After(c.backoff):
				case <-ctx.Done():
					return
				case <-c.done:
					return
				}
				continue
			}

			select {
			case c.messages <- msg:
			case <-ctx.Done():
				return
			case <-c.done:
				return
			}
		}
	}()
}

// Stop ends the read loop and closes the reader. Closing the reader unblocks
// a pending ReadMessage. It is safe to call twice.
func (c *Consumer) Stop() {
	c.stopOnce.Do(func() {
		log.Println("Attempting to stop Kafka consumer...")
		close(c.done)
		if err := c.reader.Close(); err != nil {
			log.Printf("Failed to close Kafka reader: %v", err)
		}
		c.wg.Wait()
		log.Println("Kafka consumer stopped.")
	})
}
