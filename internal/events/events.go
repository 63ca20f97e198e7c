package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

const (
	EventOrderPlaced = "OrderPlaced"
	TopicOrders      = "orderdesk.orders"
	producerName     = "order-desk"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlaced struct {
	OrderID         int64              `json:"order_id"`
	CustomerID      int64              `json:"customer_id"`
	CustomerCreated bool               `json:"customer_created"`
	OperatorID      int                `json:"operator_id"`
	Items           []models.OrderItem `json:"items"`
	Total           models.Money       `json:"total"`
	Deposit         models.Money       `json:"deposit"`
	Remaining       models.Money       `json:"remaining"`
}

// Publisher announces completed submissions. Implementations must not
// block the caller on broker availability.
type Publisher interface {
	OrderPlaced(ctx context.Context, e OrderPlaced) error
	Close() error
}

func NewEnvelope(eventType, correlationID string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producerName,
		CorrelationID: correlationID,
		Payload:       raw,
	}, nil
}

type Noop struct{}

func (Noop) OrderPlaced(context.Context, OrderPlaced) error { return nil }
func (Noop) Close() error                                  { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []OrderPlaced
}

func (r *Recorder) OrderPlaced(_ context.Context, e OrderPlaced) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []OrderPlaced {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]OrderPlaced, len(r.events))
	copy(out, r.events)
	return out
}
