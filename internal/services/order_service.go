package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"thriftshop/internal/cart"
	"thriftshop/internal/clients"
	"thriftshop/internal/domain"
	"thriftshop/internal/validate"
)

var (
	ErrCartEmpty    = errors.New("cart empty")
	ErrNoAutomation = errors.New("order automation is not configured")
)

// MissingDetailsError lists required customer fields that were left blank.
type MissingDetailsError struct {
	Fields []string
}

func (e *MissingDetailsError) Error() string {
	return "missing customer details: " + strings.Join(e.Fields, ", ")
}

// UnavailableError lists cart items that sold or left the catalog since they were added.
type UnavailableError struct {
	IDs []string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("no longer available: %s", strings.Join(e.IDs, ", "))
}

// OrderSubmitter is the automated order channel.
type OrderSubmitter interface {
	Submit(ctx context.Context, p clients.OrderPayload) error
}

type Messages struct {
	WhatsApp  cart.Message   `json:"whatsapp"`
	Instagram cart.Message   `json:"instagram"`
	Totals    cart.Summary   `json:"totals"`
	Formatted cart.Formatted `json:"formatted"`
}

type OrderService struct {
	Carts    *CartService
	Composer cart.Composer
	Script   OrderSubmitter // nil when no automation endpoint is configured
	Stats    *Stats
	Now      func() time.Time
}

func NewOrderService(carts *CartService, composer cart.Composer, script OrderSubmitter, stats *Stats) *OrderService {
	if stats == nil {
		stats = &Stats{}
	}
	return &OrderService{Carts: carts, Composer: composer, Script: script, Stats: stats, Now: time.Now}
}

// Unavailable returns the ids of items that are sold, not yet dropped at now or absent
// in catalog. An empty catalog (nothing loaded) checks nothing.
func Unavailable(items []domain.CartItem, catalog []domain.Product, now time.Time) []string {
	if len(catalog) == 0 {
		return nil
	}
	byID := make(map[string]domain.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}
	var out []string
	for _, it := range items {
		if p, ok := byID[it.ID]; !ok || p.Sold || !p.Live(now) {
			out = append(out, it.ID)
		}
	}
	return out
}

// prepare validates details and the cart; it is the common front half of every
// checkout path.
func (s *OrderService) prepare(ctx context.Context, sessionID string, details domain.CustomerDetails, catalog []domain.Product) (domain.CustomerDetails, []domain.CartItem, error) {
	details, missing := validate.Customer(details)
	if len(missing) > 0 {
		return details, nil, &MissingDetailsError{Fields: missing}
	}
	items, err := s.Carts.Items(ctx, sessionID)
	if err != nil {
		return details, nil, err
	}
	if len(items) == 0 {
		return details, nil, ErrCartEmpty
	}
	if ids := Unavailable(items, catalog, s.Now()); len(ids) > 0 {
		return details, items, &UnavailableError{IDs: ids}
	}
	return details, items, nil
}

func (s *OrderService) messages(details domain.CustomerDetails, items []domain.CartItem) Messages {
	sum := cart.Totals(items)
	return Messages{
		WhatsApp:  s.Composer.WhatsApp(details, items),
		Instagram: s.Composer.Instagram(details, items),
		Totals:    sum,
		Formatted: sum.Format(),
	}
}

// Compose builds the WhatsApp and Instagram hand-off messages. The cart is kept until
// Handoff confirms a message was sent.
func (s *OrderService) Compose(ctx context.Context, sessionID string, details domain.CustomerDetails, catalog []domain.Product) (Messages, error) {
	details, items, err := s.prepare(ctx, sessionID, details, catalog)
	if err != nil {
		return Messages{}, err
	}
	return s.messages(details, items), nil
}

type SubmitResult struct {
	OrderRef string   `json:"orderRef"`
	Messages Messages `json:"messages"`
}

// Submit sends the order to the automation script and clears the cart on success.
// On a *domain.SubmissionError the cart stays and the result still carries the
// manual messages to fall back on.
func (s *OrderService) Submit(ctx context.Context, sessionID string, details domain.CustomerDetails, catalog []domain.Product) (SubmitResult, error) {
	if s.Script == nil {
		return SubmitResult{}, ErrNoAutomation
	}
	details, items, err := s.prepare(ctx, sessionID, details, catalog)
	if err != nil {
		return SubmitResult{}, err
	}

	res := SubmitResult{OrderRef: uuid.NewString(), Messages: s.messages(details, items)}
	sum := res.Messages.Totals
	err = s.Script.Submit(ctx, clients.OrderPayload{
		OrderRef:        res.OrderRef,
		CustomerDetails: details,
		CartItems:       items,
		Subtotal:        sum.Subtotal,
		Discount:        sum.Discount,
		Total:           sum.Total,
	})
	if err != nil {
		s.Stats.OrdersFailed.Add(1)
		var se *domain.SubmissionError
		if !errors.As(err, &se) {
			err = &domain.SubmissionError{Err: err}
		}
		return res, err
	}
	s.Stats.OrdersSent.Add(1)
	if err := s.Carts.Clear(ctx, sessionID); err != nil {
		return res, fmt.Errorf("order sent but cart not cleared: %w", err)
	}
	return res, nil
}

// Handoff is called once the shopper opened a messaging channel; only then is the
// cart cleared.
func (s *OrderService) Handoff(ctx context.Context, sessionID string) error {
	items, err := s.Carts.Items(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return ErrCartEmpty
	}
	s.Stats.Handoffs.Add(1)
	return s.Carts.Clear(ctx, sessionID)
}
