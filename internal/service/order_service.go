package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dinekart/internal/auth"
	"dinekart/internal/cart"
	"dinekart/internal/checkout"
	"dinekart/internal/model"
	"dinekart/internal/notify"
	"dinekart/internal/order"
	"dinekart/internal/payment"
	"dinekart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("dinekart/service")

// orderService implements OrderService.
type orderService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	carts        cart.Store
	locker       *cart.Locker
	assembler    *order.Assembler
	dispatcher   *checkout.Dispatcher
	notifier     notify.Dispatcher
	logger       zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	carts cart.Store,
	locker *cart.Locker,
	assembler *order.Assembler,
	dispatcher *checkout.Dispatcher,
	notifier notify.Dispatcher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		carts:        carts,
		locker:       locker,
		assembler:    assembler,
		dispatcher:   dispatcher,
		notifier:     notifier,
		logger:       logger.With().Str("service", "order").Logger(),
	}
}

// Checkout assembles an order from the cart at cartKey, stores it and opens a payment
// session. The cart is left untouched; it is cleared when payment is confirmed.
func (s *orderService) Checkout(ctx context.Context, identity *auth.Identity, cartKey string, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	ctx, span := tracer.Start(ctx, "order.checkout")
	defer span.End()

	if req == nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Checkout request is required")
	}

	slot, err := parseSlot(req)
	if err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(cartKey)
	defer unlock()

	c, err := s.carts.Load(ctx, cartKey)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_key", cartKey).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	customer, customerID, err := s.resolveCustomer(ctx, identity, req.Customer)
	if err != nil {
		return nil, err
	}

	result, err := s.assembler.Assemble(ctx, order.Input{
		Items:               c.Snapshot(),
		Slot:                slot,
		Customer:            customer,
		CustomerID:          customerID,
		PromotionCode:       req.PromotionCode,
		SpecialInstructions: req.SpecialInstructions,
		CartSession:         &cartKey,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("cart_key", cartKey).Msg("checkout rejected")
		return nil, err
	}
	o := result.Order
	span.SetAttributes(attribute.String("order.id", o.ID.String()))

	if err := s.persist(ctx, o); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store order")
		return nil, err
	}

	session, err := s.dispatcher.Dispatch(ctx, o)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch")
		s.markPaymentFailed(ctx, o)
		return nil, err
	}

	if err := s.orderRepo.SetPaymentSession(ctx, o.ID, session.ID); err != nil {
		s.logger.Error().Err(err).Str("order_id", o.ID.String()).Msg("failed to record payment session")
		return nil, fmt.Errorf("failed to record payment session: %w", err)
	}
	o.PaymentSessionID = &session.ID

	s.logger.Info().
		Str("order_id", o.ID.String()).
		Int("item_count", len(o.Items)).
		Str("total", o.TotalAmount.StringFixed(2)).
		Str("session_id", session.ID).
		Msg("order placed, awaiting payment")

	return &model.CheckoutResponse{
		Order:       o,
		SessionID:   session.ID,
		RedirectURL: session.RedirectURL,
		Promotion:   result.Promotion,
	}, nil
}

func parseSlot(req *model.CheckoutRequest) (model.DeliverySlot, error) {
	slot := model.DeliverySlot{Time: strings.TrimSpace(req.DeliveryTime)}
	if date := strings.TrimSpace(req.DeliveryDate); date != "" {
		d, err := model.ParseDate(date)
		if err != nil {
			return slot, model.ErrInvalidDeliverySlot
		}
		slot.Date = d
	}
	return slot, nil
}

// resolveCustomer fills blank contact fields of a signed-in caller from their profile.
func (s *orderService) resolveCustomer(ctx context.Context, identity *auth.Identity, given model.CustomerInfo) (model.CustomerInfo, *string, error) {
	if identity == nil {
		return given, nil, nil
	}

	profile, err := s.customerRepo.Ensure(ctx, identity.Subject, identity.Email)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", identity.Subject).Msg("failed to load customer profile")
		return given, nil, fmt.Errorf("failed to load customer profile: %w", err)
	}

	fill := func(value string, fallbacks ...string) string {
		if strings.TrimSpace(value) != "" {
			return value
		}
		for _, f := range fallbacks {
			if strings.TrimSpace(f) != "" {
				return f
			}
		}
		return value
	}

	info := model.CustomerInfo{
		Email:     fill(given.Email, identity.Email, profile.Email),
		FirstName: fill(given.FirstName, profile.FirstName),
		LastName:  fill(given.LastName, profile.LastName),
		Phone:     fill(given.Phone, profile.Phone),
		Address:   fill(given.Address, profile.Address),
	}
	subject := identity.Subject
	return info, &subject, nil
}

// persist writes the order header and items in one transaction.
func (s *orderService) persist(ctx context.Context, o *model.Order) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, o); err != nil {
		s.logger.Error().Err(err).Str("order_id", o.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, o.Items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", o.ID.String()).
			Int("item_count", len(o.Items)).
			Msg("failed to create order items")
		return fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", o.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// markPaymentFailed records a failed dispatch. It runs even if the caller has gone away.
func (s *orderService) markPaymentFailed(ctx context.Context, o *model.Order) {
	ctx = context.WithoutCancel(ctx)
	if err := s.setPaymentStatus(ctx, o.ID, model.PaymentStatusFailed); err != nil {
		s.logger.Error().Err(err).Str("order_id", o.ID.String()).Msg("failed to mark payment as failed")
		return
	}
	o.PaymentStatus = model.PaymentStatusFailed
}

func (s *orderService) setPaymentStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.UpdatePaymentStatus(ctx, tx, id, status); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	return nil
}

// HandlePaymentEvent applies a verified payment webhook. Repeated deliveries are no-ops.
func (s *orderService) HandlePaymentEvent(ctx context.Context, event *payment.Event) error {
	if event == nil || event.Kind == payment.EventIgnored {
		return nil
	}

	ctx, span := tracer.Start(ctx, "order.payment_event")
	defer span.End()
	span.SetAttributes(
		attribute.String("payment.event", event.Type),
		attribute.String("payment.session_id", event.SessionID),
	)

	o, err := s.findPaymentOrder(ctx, event)
	if err != nil {
		return err
	}
	if o == nil {
		s.logger.Warn().
			Str("session_id", event.SessionID).
			Str("order_id", event.OrderID).
			Msg("payment event for unknown order")
		return model.ErrOrderNotFound
	}
	span.SetAttributes(attribute.String("order.id", o.ID.String()))

	switch event.Kind {
	case payment.EventPaid:
		return s.confirm(ctx, o)
	case payment.EventFailed:
		return s.failPayment(ctx, o)
	}
	return nil
}

func (s *orderService) findPaymentOrder(ctx context.Context, event *payment.Event) (*model.Order, error) {
	if event.SessionID != "" {
		o, err := s.orderRepo.GetByPaymentSession(ctx, event.SessionID)
		if err != nil {
			s.logger.Error().Err(err).Str("session_id", event.SessionID).Msg("failed to find order by payment session")
			return nil, fmt.Errorf("failed to get order: %w", err)
		}
		if o != nil {
			return o, nil
		}
	}

	// The webhook can beat SetPaymentSession; fall back to the order id the provider echoes.
	if event.OrderID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(event.OrderID)
	if err != nil {
		return nil, nil
	}
	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", event.OrderID).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

// confirm marks o paid, moves it from pending to confirmed, clears the cart it was
// placed from and notifies the customer and the admins.
func (s *orderService) confirm(ctx context.Context, o *model.Order) (err error) {
	if o.PaymentStatus == model.PaymentStatusPaid {
		s.logger.Debug().Str("order_id", o.ID.String()).Msg("payment already recorded")
		return nil
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to confirm order: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	marked, err := s.orderRepo.MarkPaid(ctx, tx, o.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", o.ID.String()).Msg("failed to record payment")
		return fmt.Errorf("failed to confirm order: %w", err)
	}
	if !marked {
		// Another delivery of the same event got here first.
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
		s.logger.Debug().Str("order_id", o.ID.String()).Msg("payment already recorded")
		o.PaymentStatus = model.PaymentStatusPaid
		return nil
	}

	confirmed := o.Status == model.OrderStatusPending
	if confirmed {
		err = s.orderRepo.UpdateStatus(ctx, tx, o.ID, model.OrderStatusPending, model.OrderStatusConfirmed)
		switch {
		case errors.Is(err, model.ErrInvalidStatusTransition):
			// An admin moved the order meanwhile; the payment is still recorded.
			err = nil
			confirmed = false
			s.logger.Warn().Str("order_id", o.ID.String()).Msg("order left pending before payment was confirmed")
		case err != nil:
			s.logger.Error().Err(err).Str("order_id", o.ID.String()).Msg("failed to confirm order")
			return fmt.Errorf("failed to confirm order: %w", err)
		}
	} else if order.IsTerminal(o.Status) {
		s.logger.Error().
			Str("order_id", o.ID.String()).
			Str("status", string(o.Status)).
			Msg("payment received for a closed order, refund required")
	} else {
		s.logger.Warn().
			Str("order_id", o.ID.String()).
			Str("status", string(o.Status)).
			Msg("payment received for an order that is no longer pending")
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", o.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to confirm order: %w", err)
	}

	o.PaymentStatus = model.PaymentStatusPaid
	if confirmed {
		o.Status = model.OrderStatusConfirmed
	}
	o.UpdatedAt = time.Now().UTC()

	s.clearCart(ctx, o)
	s.notify(ctx, notify.OrderConfirmed(notify.Recipient(o), o))
	s.notify(ctx, notify.NewOrder(o))

	s.logger.Info().
		Str("order_id", o.ID.String()).
		Str("total", o.TotalAmount.StringFixed(2)).
		Msg("payment confirmed")
	return nil
}

func (s *orderService) failPayment(ctx context.Context, o *model.Order) error {
	switch o.PaymentStatus {
	case model.PaymentStatusPaid:
		s.logger.Warn().Str("order_id", o.ID.String()).Msg("ignoring payment failure for a paid order")
		return nil
	case model.PaymentStatusFailed:
		return nil
	}

	if err := s.setPaymentStatus(ctx, o.ID, model.PaymentStatusFailed); err != nil {
		s.logger.Error().Err(err).Str("order_id", o.ID.String()).Msg("failed to record payment failure")
		return err
	}
	o.PaymentStatus = model.PaymentStatusFailed

	s.logger.Info().Str("order_id", o.ID.String()).Msg("payment failed")
	return nil
}

func (s *orderService) clearCart(ctx context.Context, o *model.Order) {
	if o.CartSession == nil || *o.CartSession == "" {
		return
	}
	key := *o.CartSession

	unlock := s.locker.Lock(key)
	defer unlock()

	if err := s.carts.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("order_id", o.ID.String()).Str("cart_key", key).Msg("failed to clear cart after payment")
	}
}

func (s *orderService) notify(ctx context.Context, n model.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn().Err(err).Str("type", n.Type).Str("recipient_id", n.RecipientID).Msg("failed to send notification")
	}
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if o == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return o, nil
}

// List retrieves orders matching filter, newest first.
func (s *orderService) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Unknown order status")
	}
	filter.Limit, filter.Offset = page(filter.Limit, filter.Offset)

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	// Admin listings carry the statuses each order may move to next.
	if filter.CustomerID == nil {
		for i := range orders {
			orders[i].NextStatuses = order.NextStatuses(orders[i].Status)
		}
	}
	return orders, nil
}

// UpdateStatus moves an order along its lifecycle and notifies the customer.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (_ *model.Order, err error) {
	if !status.Valid() {
		return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Unknown order status")
	}

	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.Transition(o.Status, status); err != nil {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(o.Status)).
			Str("to", string(status)).
			Msg("illegal status transition")
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.UpdateStatus(ctx, tx, id, o.Status, status); err != nil {
		if errors.Is(err, model.ErrInvalidStatusTransition) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	from := o.Status
	o.Status = status
	o.NextStatuses = order.NextStatuses(status)
	o.UpdatedAt = time.Now().UTC()

	s.notify(ctx, notify.StatusChanged(notify.Recipient(o), o))

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(from)).
		Str("to", string(status)).
		Msg("order status updated")

	return o, nil
}
