package events

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/order-desk/internal/logging"
)

var ErrPublisherFull = errors.New("event buffer full")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher hands messages to a background goroutine through a
// buffered inbox. When the inbox is full the event is dropped.
type KafkaPublisher struct {
	w     messageWriter
	inbox chan kafka.Message
	done  chan struct{}
	once  sync.Once
	log   *logrus.Entry
}

func NewKafkaPublisher(brokers []string, topic string, buf int) *KafkaPublisher {
	if topic == "" {
		topic = TopicOrders
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return newKafkaPublisher(w, buf)
}

func newKafkaPublisher(w messageWriter, buf int) *KafkaPublisher {
	if buf <= 0 {
		buf = 256
	}
	p := &KafkaPublisher{
		w:     w,
		inbox: make(chan kafka.Message, buf),
		done:  make(chan struct{}),
		log:   logging.WithModule("events"),
	}
	go p.run()
	return p
}

func (p *KafkaPublisher) run() {
	defer close(p.done)
	for m := range p.inbox {
		if err := p.w.WriteMessages(context.Background(), m); err != nil {
			p.log.WithError(err).WithField("key", string(m.Key)).Warn("failed to publish event")
		}
	}
	if err := p.w.Close(); err != nil {
		p.log.WithError(err).Warn("failed to close kafka writer")
	}
}

func (p *KafkaPublisher) OrderPlaced(_ context.Context, e OrderPlaced) error {
	key := strconv.FormatInt(e.OrderID, 10)
	env, err := NewEnvelope(EventOrderPlaced, key, e)
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
		},
	}
	select {
	case p.inbox <- msg:
		return nil
	default:
		return ErrPublisherFull
	}
}

// Close flushes what is buffered and waits for the writer to close.
func (p *KafkaPublisher) Close() error {
	p.once.Do(func() { close(p.inbox) })
	<-p.done
	return nil
}
