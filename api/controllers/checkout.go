package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/floracare/storefront/api/middleware"
	"github.com/floracare/storefront/api/responses"
	"github.com/floracare/storefront/api/validators"
	checkoutsvc "github.com/floracare/storefront/internal/checkout"
	pkgerrors "github.com/floracare/storefront/pkg/errors"
	"github.com/floracare/storefront/pkg/logger"
)

// CheckoutReview opens the review step for the profile's cart. It fails when
// the cart is empty and while a submission is in flight.
func CheckoutReview(orch *checkoutsvc.Orchestrator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := requireCheckoutProfile(r, orch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := orch.Review(r.Context(), profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutReviewResponse{
			State: orch.State(profileID).String(),
			Cart:  newCartResponse(snapshot),
		})
	}
}

// CheckoutSubmit validates the customer form and places the order.
func CheckoutSubmit(orch *checkoutsvc.Orchestrator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := requireCheckoutProfile(r, orch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutSubmitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := orch.Submit(r.Context(), profileID, checkoutsvc.CustomerInfo{
			Name:            payload.Name,
			Email:           payload.Email,
			Phone:           payload.Phone,
			DeliveryAddress: payload.DeliveryAddress,
			Notes:           payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutSubmitResponse{
			OrderID: orderID,
			State:   orch.State(profileID).String(),
		})
	}
}

// CheckoutLeave abandons the review step and returns the flow to idle.
func CheckoutLeave(orch *checkoutsvc.Orchestrator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := requireCheckoutProfile(r, orch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := orch.Leave(profileID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutStateResponse{State: orch.State(profileID).String()})
	}
}

// CheckoutState reports the profile's current checkout state.
func CheckoutState(orch *checkoutsvc.Orchestrator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := requireCheckoutProfile(r, orch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutStateResponse{State: orch.State(profileID).String()})
	}
}

func requireCheckoutProfile(r *http.Request, orch *checkoutsvc.Orchestrator) (string, error) {
	if orch == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable")
	}
	profileID := middleware.ProfileIDFromContext(r.Context())
	if profileID == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "profile context missing")
	}
	return profileID, nil
}

type checkoutSubmitRequest struct {
	Name            string `json:"customer_name" validate:"required"`
	Email           string `json:"customer_email" validate:"required,email"`
	Phone           string `json:"customer_phone"`
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	Notes           string `json:"notes"`
}

type checkoutReviewResponse struct {
	State string       `json:"state"`
	Cart  cartResponse `json:"cart"`
}

type checkoutSubmitResponse struct {
	OrderID uuid.UUID `json:"order_id"`
	State   string    `json:"state"`
}

type checkoutStateResponse struct {
	State string `json:"state"`
}
