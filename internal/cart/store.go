package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/floracare/storefront/pkg/db/models"
	pkgerrors "github.com/floracare/storefront/pkg/errors"
	"github.com/floracare/storefront/pkg/logger"
	"github.com/google/uuid"
)

// Store owns the persisted cart slot for every storefront profile. All
// mutation funnels through AddItem/UpdateQuantity/RemoveItem/Clear; callers
// never touch the underlying storage. Every mutation rewrites the whole slot
// in a single write and then broadcasts on the notifier.
type Store struct {
	kv       KeyValue
	notifier *Notifier
	logg     *logger.Logger
}

// NewStore builds a cart store backed by the provided slot storage.
func NewStore(kv KeyValue, notifier *Notifier, logg *logger.Logger) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("key-value storage required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &Store{kv: kv, notifier: notifier, logg: logg}, nil
}

// Load returns the profile's persisted cart. An absent or malformed slot
// loads as an empty cart and is never surfaced as an error.
func (s *Store) Load(ctx context.Context, profileID string) Cart {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(profileID))
	if err != nil {
		// A storage outage must not break browsing, but unlike an absent
		// slot it leaves a trace in the logs.
		if s.logg != nil {
			ctx := s.logg.WithProfileID(ctx, profileID)
			ctx = s.logg.WithField(ctx, "error", err.Error())
			s.logg.Warn(ctx, "cart slot read failed, treating as empty")
		}
		return Cart{}
	}
	if raw == "" {
		return Cart{}
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithProfileID(ctx, profileID), "malformed cart slot, treating as empty")
		}
		return Cart{}
	}
	return Cart{Items: items}
}

// AddItem merges a product into the cart: an existing line item has its
// quantity incremented, otherwise a new line item is inserted with a price
// snapshot taken from the product. A quantity below 1 is a silent no-op.
func (s *Store) AddItem(ctx context.Context, profileID string, product *models.Product, quantity int) (Cart, error) {
	current := s.Load(ctx, profileID)
	if product == nil || quantity < 1 {
		return current, nil
	}

	merged := false
	for i := range current.Items {
		if current.Items[i].ProductID == product.ID {
			current.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		current.Items = append(current.Items, LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  quantity,
		})
	}

	if err := s.persist(ctx, profileID, current); err != nil {
		return Cart{}, err
	}
	return current, nil
}

// UpdateQuantity sets a line item's quantity. Requests below 1 are rejected
// as no-ops; removal is a distinct explicit operation, never implicit. An
// absent product id is likewise a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, profileID string, productID uuid.UUID, quantity int) (Cart, error) {
	current := s.Load(ctx, profileID)
	if quantity < 1 {
		return current, nil
	}

	updated := false
	for i := range current.Items {
		if current.Items[i].ProductID == productID {
			current.Items[i].Quantity = quantity
			updated = true
			break
		}
	}
	if !updated {
		return current, nil
	}

	if err := s.persist(ctx, profileID, current); err != nil {
		return Cart{}, err
	}
	return current, nil
}

// RemoveItem deletes the line item for the given product id; no-op when absent.
func (s *Store) RemoveItem(ctx context.Context, profileID string, productID uuid.UUID) (Cart, error) {
	current := s.Load(ctx, profileID)

	kept := current.Items[:0:0]
	removed := false
	for _, item := range current.Items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return current, nil
	}
	current.Items = kept

	if err := s.persist(ctx, profileID, current); err != nil {
		return Cart{}, err
	}
	return current, nil
}

// Clear empties the profile's cart.
func (s *Store) Clear(ctx context.Context, profileID string) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(profileID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart slot")
	}
	s.notifier.Broadcast(ctx, profileID)
	return nil
}

// Subscribe registers an observer for the profile's cart changes. The
// returned cancel func must run on every exit path of the owning scope.
func (s *Store) Subscribe(profileID string, fn func()) func() {
	return s.notifier.Subscribe(profileID, fn)
}

func (s *Store) persist(ctx context.Context, profileID string, cart Cart) error {
	raw, err := json.Marshal(cart.Items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "serialize cart")
	}
	// No TTL: carts have no expiry in this design.
	if err := s.kv.Set(ctx, s.kv.CartKey(profileID), string(raw), 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart slot")
	}
	s.notifier.Broadcast(ctx, profileID)
	return nil
}
