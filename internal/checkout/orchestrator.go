package checkout

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/floracare/storefront/internal/cart"
	"github.com/floracare/storefront/pkg/db/models"
	"github.com/floracare/storefront/pkg/enums"
	pkgerrors "github.com/floracare/storefront/pkg/errors"
	"github.com/floracare/storefront/pkg/logger"
	"github.com/floracare/storefront/pkg/types"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CustomerInfo is the checkout form's working state. It is validated before
// submission and never persisted on its own.
type CustomerInfo struct {
	Name            string `json:"customer_name" validate:"required"`
	Email           string `json:"customer_email" validate:"required,email"`
	Phone           string `json:"customer_phone"`
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	Notes           string `json:"notes"`
}

// OrderCreator is the external order sink: called exactly once per successful
// checkout attempt.
type OrderCreator interface {
	Create(ctx context.Context, order *models.Order) (uuid.UUID, error)
}

type cartStore interface {
	Load(ctx context.Context, profileID string) cart.Cart
	Clear(ctx context.Context, profileID string) error
	Subscribe(profileID string, fn func()) func()
}

// Orchestrator drives the per-profile submission state machine:
// idle -> reviewing -> submitting -> succeeded | failed(-> reviewing).
type Orchestrator struct {
	store        cartStore
	sink         OrderCreator
	validate     *validator.Validate
	logg         *logger.Logger
	successDelay time.Duration

	mu    sync.Mutex
	flows map[string]*flow
}

type flow struct {
	state       enums.CheckoutState
	unsubscribe func()
	resetTimer  *time.Timer
}

// NewOrchestrator builds the checkout orchestrator. successDelay is how long
// the succeeded state is displayed before the flow resets to idle.
func NewOrchestrator(store cartStore, sink OrderCreator, successDelay time.Duration, logg *logger.Logger) (*Orchestrator, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if sink == nil {
		return nil, fmt.Errorf("order sink required")
	}
	if successDelay <= 0 {
		successDelay = 3 * time.Second
	}
	return &Orchestrator{
		store:        store,
		sink:         sink,
		validate:     newValidator(),
		logg:         logg,
		successDelay: successDelay,
		flows:        map[string]*flow{},
	}, nil
}

// State returns the profile's current checkout state.
func (o *Orchestrator) State(profileID string) enums.CheckoutState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if f, ok := o.flows[profileID]; ok {
		return f.state
	}
	return enums.CheckoutStateIdle
}

// Review moves the profile into the reviewing state. It requires a non-empty
// cart and registers a cart observer so the flow drops back to idle if the
// last item is removed from another view while reviewing.
func (o *Orchestrator) Review(ctx context.Context, profileID string) (cart.Cart, error) {
	snapshot := o.store.Load(ctx, profileID)
	if snapshot.IsEmpty() {
		o.transitionToIdle(profileID)
		return cart.Cart{}, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	o.mu.Lock()
	f := o.flow(profileID)
	if f.state == enums.CheckoutStateSubmitting {
		o.mu.Unlock()
		return cart.Cart{}, pkgerrors.New(pkgerrors.CodeConflict, "submission already in progress")
	}
	f.state = enums.CheckoutStateReviewing
	if f.unsubscribe == nil {
		f.unsubscribe = o.store.Subscribe(profileID, func() {
			o.recheckOccupancy(profileID)
		})
	}
	o.mu.Unlock()

	return snapshot, nil
}

// Leave abandons the review and returns the profile to idle. The cart is
// untouched.
func (o *Orchestrator) Leave(profileID string) error {
	o.mu.Lock()
	f := o.flow(profileID)
	if f.state == enums.CheckoutStateSubmitting {
		o.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeConflict, "submission already in progress")
	}
	o.mu.Unlock()

	o.transitionToIdle(profileID)
	return nil
}

// Submit validates the customer form, snapshots the cart, and calls the order
// sink exactly once. Concurrent submissions for the same profile are
// rejected while one is in flight. On failure the cart is left untouched and
// the flow returns to reviewing; on success the cart is cleared (broadcasting
// the change) and the flow shows succeeded until the display delay elapses.
func (o *Orchestrator) Submit(ctx context.Context, profileID string, info CustomerInfo) (uuid.UUID, error) {
	if err := o.validate.Struct(info); err != nil {
		return uuid.Nil, formatValidationError(err)
	}

	o.mu.Lock()
	f := o.flow(profileID)
	if f.state == enums.CheckoutStateSubmitting {
		o.mu.Unlock()
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeConflict, "submission already in progress")
	}
	f.state = enums.CheckoutStateSubmitting
	o.mu.Unlock()

	snapshot := o.store.Load(ctx, profileID)
	if snapshot.IsEmpty() {
		o.transitionToIdle(profileID)
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	order := buildOrder(info, snapshot)

	orderID, err := o.sink.Create(ctx, order)
	if err != nil {
		// The cart must survive a failed submission; only the state reverts.
		o.revertToReviewing(profileID)
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order").
			WithDetails(map[string]any{"state": enums.CheckoutStateFailed.String()})
	}

	if clearErr := o.store.Clear(ctx, profileID); clearErr != nil {
		if o.logg != nil {
			o.logg.Error(o.logg.WithProfileID(ctx, profileID), "clearing cart after order creation", clearErr)
		}
	}

	o.mu.Lock()
	f = o.flow(profileID)
	f.state = enums.CheckoutStateSucceeded
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
	if f.resetTimer != nil {
		f.resetTimer.Stop()
	}
	f.resetTimer = time.AfterFunc(o.successDelay, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if current, ok := o.flows[profileID]; ok && current.state == enums.CheckoutStateSucceeded {
			delete(o.flows, profileID)
		}
	})
	o.mu.Unlock()

	return orderID, nil
}

// flow returns the profile's flow, creating an idle one on first use.
// Callers must hold o.mu.
func (o *Orchestrator) flow(profileID string) *flow {
	f, ok := o.flows[profileID]
	if !ok {
		f = &flow{state: enums.CheckoutStateIdle}
		o.flows[profileID] = f
	}
	return f
}

// recheckOccupancy runs on every cart broadcast while a review subscription
// is live. Reviewing requires a non-empty cart, so an emptied cart forces the
// flow back to idle.
func (o *Orchestrator) recheckOccupancy(profileID string) {
	snapshot := o.store.Load(context.Background(), profileID)
	if !snapshot.IsEmpty() {
		return
	}

	o.mu.Lock()
	f, ok := o.flows[profileID]
	if !ok || f.state != enums.CheckoutStateReviewing {
		o.mu.Unlock()
		return
	}
	cancel := f.unsubscribe
	f.unsubscribe = nil
	delete(o.flows, profileID)
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// revertToReviewing puts a failed submission back into the reviewing state.
// A submit without a prior review has no cart observer yet, so one is
// registered here the same way Review does it.
func (o *Orchestrator) revertToReviewing(profileID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	f := o.flow(profileID)
	f.state = enums.CheckoutStateReviewing
	if f.unsubscribe == nil {
		f.unsubscribe = o.store.Subscribe(profileID, func() {
			o.recheckOccupancy(profileID)
		})
	}
}

func (o *Orchestrator) transitionToIdle(profileID string) {
	o.mu.Lock()
	f, ok := o.flows[profileID]
	if !ok {
		o.mu.Unlock()
		return
	}
	cancel := f.unsubscribe
	f.unsubscribe = nil
	if f.resetTimer != nil {
		f.resetTimer.Stop()
	}
	delete(o.flows, profileID)
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func buildOrder(info CustomerInfo, snapshot cart.Cart) *models.Order {
	items := make(types.OrderItems, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		items = append(items, types.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Price:       item.Price,
			Quantity:    item.Quantity,
			ImageURL:    item.ImageURL,
		})
	}
	return &models.Order{
		CustomerName:    info.Name,
		CustomerEmail:   info.Email,
		CustomerPhone:   info.Phone,
		DeliveryAddress: info.DeliveryAddress,
		Items:           items,
		TotalAmount:     snapshot.TotalAmount().Round(2),
		Status:          enums.OrderStatusNew,
		Notes:           info.Notes,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

func formatValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "customer info validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "customer info validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}
