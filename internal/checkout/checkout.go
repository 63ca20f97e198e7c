package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/order-desk/internal/cart"
	"github.com/rogerio-castellano/order-desk/internal/events"
	"github.com/rogerio-castellano/order-desk/internal/logging"
	"github.com/rogerio-castellano/order-desk/internal/models"
	"github.com/rogerio-castellano/order-desk/internal/repo"
	"github.com/rogerio-castellano/order-desk/internal/shopapi"
	"github.com/rogerio-castellano/order-desk/internal/validation"
)

// ShopAPI is the part of the shop API client a submission needs.
type ShopAPI interface {
	CreateCustomer(ctx context.Context, in shopapi.CustomerInput) (models.Customer, error)
	CreateOrder(ctx context.Context, in shopapi.OrderInput) (models.Order, error)
	VariantsByProduct(ctx context.Context, productID int64) ([]models.Variant, error)
}

type NewCustomer struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required,max=20"`
	Address     string `json:"address,omitempty"`
	FacebookURL string `json:"facebook_url,omitempty" validate:"omitempty,url"`
	Notes       string `json:"notes,omitempty"`
}

type Request struct {
	Cart              *cart.Cart
	CustomerID        int64
	NewCustomer       *NewCustomer
	Deposit           string
	SelectedProductID int64
}

type Result struct {
	SubmissionID     int              `json:"submission_id"`
	OrderID          int64            `json:"order_id"`
	CustomerID       int64            `json:"customer_id"`
	CustomerCreated  bool             `json:"customer_created"`
	Totals           cart.Totals      `json:"totals"`
	ItemCount        int              `json:"item_count"`
	Variants         []models.Variant `json:"variants,omitempty"`
	InvoiceAvailable bool             `json:"invoice_available"`
}

type Service struct {
	api       ShopAPI
	journal   repo.SubmissionRepository
	publisher events.Publisher
	validate  *validator.Validate
	log       *logrus.Entry

	mu       sync.Mutex
	inFlight map[int]bool
}

func NewService(api ShopAPI, journal repo.SubmissionRepository, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		api:       api,
		journal:   journal,
		publisher: publisher,
		validate:  validation.New(),
		log:       logging.WithModule("checkout"),
		inFlight:  map[int]bool{},
	}
}

func (s *Service) acquire(operator int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[operator] {
		return false
	}
	s.inFlight[operator] = true
	return true
}

func (s *Service) release(operator int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, operator)
}

// Validate checks a request without calling the shop API.
func (s *Service) Validate(req Request) error {
	if req.Cart == nil || req.Cart.Empty() {
		return ErrEmptyCart
	}
	if l, ok := req.Cart.Oversold(); ok {
		return &cart.StockError{VariantID: l.VariantID, Requested: l.Quantity, Available: l.Stock}
	}
	if req.CustomerID == 0 && (req.NewCustomer == nil || strings.TrimSpace(req.NewCustomer.Name) == "") {
		return ErrNoCustomer
	}
	if req.CustomerID == 0 {
		nc := *req.NewCustomer
		nc.Name = strings.TrimSpace(nc.Name)
		nc.Phone = strings.TrimSpace(nc.Phone)
		if err := s.validate.Struct(nc); err != nil {
			return fromValidator(err)
		}
	}
	return nil
}

// Submit creates the customer when needed, then the order. Only one
// submission per operator runs at a time; a concurrent call fails with
// ErrSubmissionInFlight instead of waiting. Nothing is retried.
func (s *Service) Submit(ctx context.Context, operator int, req Request) (Result, error) {
	if !s.acquire(operator) {
		return Result{}, ErrSubmissionInFlight
	}
	defer s.release(operator)

	if err := s.Validate(req); err != nil {
		return Result{}, err
	}

	totals := req.Cart.Totals(req.Deposit)
	entry := models.Submission{
		UserID:     operator,
		CustomerID: req.CustomerID,
		ItemCount:  req.Cart.ItemCount(),
		Subtotal:   totals.Subtotal,
		Deposit:    totals.Deposit,
		Remaining:  totals.Remaining,
	}
	log := logging.WithContext(ctx).WithFields(logrus.Fields{"module": "checkout", "operator": operator})

	customerID := req.CustomerID
	if customerID == 0 {
		nc := req.NewCustomer
		created, err := s.api.CreateCustomer(ctx, shopapi.CustomerInput{
			Name:        strings.TrimSpace(nc.Name),
			Phone:       strings.TrimSpace(nc.Phone),
			Address:     nc.Address,
			FacebookURL: nc.FacebookURL,
			Notes:       nc.Notes,
		})
		if err != nil {
			s.record(entry, models.SubmissionFailed, err)
			log.WithError(err).Warn("customer creation failed")
			return Result{}, fmt.Errorf("creating customer: %w", err)
		}
		customerID = created.ID
		entry.CustomerID = created.ID
		entry.CustomerCreated = true
	}

	items := req.Cart.Items()
	order, err := s.api.CreateOrder(ctx, shopapi.OrderInput{
		CustomerID: customerID,
		Items:      items,
		Total:      totals.Subtotal,
		Deposit:    totals.Deposit,
		Status:     models.OrderPending,
	})
	if err != nil {
		if entry.CustomerCreated {
			s.record(entry, models.SubmissionOrphaned, err)
			log.WithError(err).WithField("customer_id", customerID).Warn("order failed after customer was created")
			return Result{}, &OrphanedCustomerError{CustomerID: customerID, Err: err}
		}
		s.record(entry, models.SubmissionFailed, err)
		log.WithError(err).Warn("order creation failed")
		return Result{}, fmt.Errorf("creating order: %w", err)
	}

	entry.OrderID = order.ID
	saved := s.record(entry, models.SubmissionCompleted, nil)

	result := Result{
		SubmissionID:     saved.ID,
		OrderID:          order.ID,
		CustomerID:       customerID,
		CustomerCreated:  entry.CustomerCreated,
		Totals:           totals,
		ItemCount:        entry.ItemCount,
		InvoiceAvailable: true,
	}

	if req.SelectedProductID != 0 {
		variants, err := s.api.VariantsByProduct(ctx, req.SelectedProductID)
		if err != nil {
			log.WithError(err).Info("could not refresh variants after order")
		} else {
			result.Variants = variants
			req.Cart.RefreshStock(variants)
		}
	}

	if err := s.publisher.OrderPlaced(ctx, events.OrderPlaced{
		OrderID:         order.ID,
		CustomerID:      customerID,
		CustomerCreated: entry.CustomerCreated,
		OperatorID:      operator,
		Items:           items,
		Total:           totals.Subtotal,
		Deposit:         totals.Deposit,
		Remaining:       totals.Remaining,
	}); err != nil {
		log.WithError(err).Warn("order placed event not published")
	}

	log.WithFields(logrus.Fields{"order_id": order.ID, "customer_id": customerID}).Info("order submitted")
	return result, nil
}

// record journals the attempt. A journal failure is logged and never
// changes the outcome of the submission.
func (s *Service) record(entry models.Submission, status models.SubmissionStatus, cause error) models.Submission {
	entry.Status = status
	if cause != nil {
		entry.Error = cause.Error()
	}
	saved, err := s.journal.Log(entry)
	if err != nil {
		s.log.WithError(err).Error("failed to journal submission")
		return entry
	}
	return saved
}
