package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/floracare/storefront/pkg/logger"
)

// EventCartUpdated is the name of the broadcast fired after every cart
// mutation. It carries no payload; observers re-read the store.
const EventCartUpdated = "cartUpdated"

// Notifier fans a no-payload "cart changed" signal out to every observer
// registered for a profile. Delivery is synchronous and best-effort: an
// observer that panics is recovered and logged so the remaining observers
// still run. Observers must not perform I/O in the handler.
type Notifier struct {
	mu        sync.Mutex
	nextID    uint64
	observers map[string]map[uint64]func()
	logg      *logger.Logger
}

// NewNotifier builds an empty observer registry.
func NewNotifier(logg *logger.Logger) *Notifier {
	return &Notifier{
		observers: map[string]map[uint64]func(){},
		logg:      logg,
	}
}

// Subscribe registers fn for the profile's cart changes and returns a cancel
// func. Callers must invoke cancel on every exit path of the owning scope;
// cancel is idempotent.
func (n *Notifier) Subscribe(profileID string, fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	if n.observers[profileID] == nil {
		n.observers[profileID] = map[uint64]func(){}
	}
	n.observers[profileID][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.observers[profileID], id)
			if len(n.observers[profileID]) == 0 {
				delete(n.observers, profileID)
			}
		})
	}
}

// Broadcast invokes every observer registered for the profile. Order across
// observers is unspecified.
func (n *Notifier) Broadcast(ctx context.Context, profileID string) {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.observers[profileID]))
	for _, fn := range n.observers[profileID] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		n.dispatch(ctx, profileID, fn)
	}
}

func (n *Notifier) dispatch(ctx context.Context, profileID string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			if n.logg != nil {
				ctx = n.logg.WithFields(ctx, map[string]any{
					"event":      EventCartUpdated,
					"profile_id": profileID,
				})
				n.logg.Error(ctx, "cart observer panicked", fmt.Errorf("panic: %v", rec))
			}
		}
	}()
	fn()
}
