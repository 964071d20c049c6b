package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/floracare/storefront/api/middleware"
	"github.com/floracare/storefront/api/responses"
	"github.com/floracare/storefront/api/validators"
	cartsvc "github.com/floracare/storefront/internal/cart"
	"github.com/floracare/storefront/internal/catalog"
	pkgerrors "github.com/floracare/storefront/pkg/errors"
	"github.com/floracare/storefront/pkg/logger"
)

// CartGet returns the profile's current cart.
func CartGet(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := requireProfile(r, store, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot := store.Load(r.Context(), profileID)
		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartAddItem merges a product into the profile's cart at its current catalog
// price. Re-adding an existing product increments its quantity and keeps the
// original price snapshot.
func CartAddItem(store *cartsvc.Store, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := requireProfile(r, store, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if catalogSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quantity := 1
		if payload.Quantity != nil {
			quantity = *payload.Quantity
		}

		product, err := catalogSvc.GetProduct(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := store.AddItem(r.Context(), profileID, product, quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartUpdateItem sets the quantity of an existing line item. Quantities below
// one and unknown products leave the cart unchanged.
func CartUpdateItem(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := requireProfile(r, store, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := productIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := store.UpdateQuantity(r.Context(), profileID, productID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartRemoveItem deletes a line item; removing an absent product is a no-op.
func CartRemoveItem(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := requireProfile(r, store, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := productIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := store.RemoveItem(r.Context(), profileID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartClear empties the profile's cart.
func CartClear(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := requireProfile(r, store, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Clear(r.Context(), profileID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cartsvc.Cart{}))
	}
}

// CartSummary returns the badge projection: total quantity and rounded total.
func CartSummary(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := requireProfile(r, store, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot := store.Load(r.Context(), profileID)
		responses.WriteSuccess(w, newCartSummary(snapshot))
	}
}

// CartEvents streams cart change notifications for the profile as
// server-sent events. An initial snapshot event is sent on connect, then one
// event per broadcast until the client disconnects.
func CartEvents(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := requireProfile(r, store, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		// Coalescing channel: a burst of broadcasts collapses into one
		// pending signal, and the handler re-reads the slot per event.
		signal := make(chan struct{}, 1)
		cancel := store.Subscribe(profileID, func() {
			select {
			case signal <- struct{}{}:
			default:
			}
		})
		defer cancel()

		writeCartEvent(w, store.Load(r.Context(), profileID))
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-signal:
				writeCartEvent(w, store.Load(r.Context(), profileID))
				flusher.Flush()
			}
		}
	}
}

func writeCartEvent(w http.ResponseWriter, snapshot cartsvc.Cart) {
	payload, err := json.Marshal(newCartSummary(snapshot))
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", cartsvc.EventCartUpdated, payload)
}

func requireProfile(r *http.Request, store *cartsvc.Store, logg *logger.Logger) (string, error) {
	if store == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable")
	}
	profileID := middleware.ProfileIDFromContext(r.Context())
	if profileID == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "profile context missing")
	}
	return profileID, nil
}

func productIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "productID")
	productID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return productID, nil
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  *int      `json:"quantity,omitempty"`
}

// Quantity carries no validation tag: values below 1 flow through to the
// store, which treats them as a silent no-op rather than a raised failure.
type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items       []cartItemResponse `json:"items"`
	ItemCount   int                `json:"item_count"`
	TotalAmount string             `json:"total_amount"`
}

type cartItemResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	ImageURL  string    `json:"image_url,omitempty"`
	Quantity  int       `json:"quantity"`
	Subtotal  string    `json:"subtotal"`
}

type cartSummaryResponse struct {
	ItemCount   int    `json:"item_count"`
	TotalAmount string `json:"total_amount"`
}

func newCartResponse(snapshot cartsvc.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		items = append(items, cartItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price.StringFixed(2),
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal().StringFixed(2),
		})
	}
	return cartResponse{
		Items:       items,
		ItemCount:   snapshot.ItemCount(),
		TotalAmount: snapshot.TotalAmount().StringFixed(2),
	}
}

func newCartSummary(snapshot cartsvc.Cart) cartSummaryResponse {
	return cartSummaryResponse{
		ItemCount:   snapshot.ItemCount(),
		TotalAmount: snapshot.TotalAmount().StringFixed(2),
	}
}
