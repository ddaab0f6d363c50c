// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	publishTimeout = 3 * time.Second

	// DefaultKafkaBuffer is the number of events queued before Publish drops.
	DefaultKafkaBuffer = 256
)

// MessageWriter is the subset of kafka.Writer used by KafkaSink.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes events as JSON, keyed by user so one learner's events
// stay ordered within a partition. Publish only enqueues; a single background
// goroutine talks to the brokers, so a slow or unreachable broker never holds
// up the caller.
type KafkaSink struct {
	writer MessageWriter
	queue  chan kafka.Message

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewKafkaWriter creates a writer for topic on brokers.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// NewKafkaSink wraps writer with a queue of DefaultKafkaBuffer events.
func NewKafkaSink(writer MessageWriter) *KafkaSink {
	return NewBufferedKafkaSink(writer, DefaultKafkaBuffer)
}

// NewBufferedKafkaSink wraps writer with a queue of size events.
func NewBufferedKafkaSink(writer MessageWriter, size int) *KafkaSink {
	if size < 1 {
		size = 1
	}
	k := &KafkaSink{
		writer: writer,
		queue:  make(chan kafka.Message, size),
		done:   make(chan struct{}),
	}
	go k.run()
	return k
}

func (k *KafkaSink) run() {
	defer close(k.done)
	for msg := range k.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := k.writer.WriteMessages(ctx, msg); err != nil {
			logrus.Warnf("failed to publish progression event for %s: %v", msg.Key, err)
		}
		cancel()
	}
}

// Publish enqueues event. A full queue drops the event with a warning.
func (k *KafkaSink) Publish(_ context.Context, event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		logrus.Errorf("failed to marshal progression event %s: %v", event.Type, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.User),
		Value: value,
		Time:  event.At,
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		logrus.Warnf("dropping progression event %s for %s: sink closed", event.Type, event.User)
		return
	}
	select {
	case k.queue <- msg:
	default:
		logrus.Warnf("dropping progression event %s for %s: publish queue full", event.Type, event.User)
	}
}

// Close drains queued events, then closes the writer.
func (k *KafkaSink) Close() error {
	k.mu.Lock()
	if !k.closed {
		k.closed = true
		close(k.queue)
	}
	k.mu.Unlock()

	<-k.done
	return k.writer.Close()
}
