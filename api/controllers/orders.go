package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/floracare/storefront/api/responses"
	"github.com/floracare/storefront/internal/orders"
	"github.com/floracare/storefront/pkg/db/models"
	pkgerrors "github.com/floracare/storefront/pkg/errors"
	"github.com/floracare/storefront/pkg/logger"
	"github.com/floracare/storefront/pkg/types"
)

// OrdersList returns submitted orders newest-first. Shop-owner surface; the
// storefront itself never reads orders back.
func OrdersList(repo orders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order repository unavailable"))
			return
		}

		records, err := repo.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders"))
			return
		}

		result := make([]orderResponse, 0, len(records))
		for _, record := range records {
			result = append(result, newOrderResponse(record))
		}
		responses.WriteSuccess(w, result)
	}
}

type orderResponse struct {
	ID              uuid.UUID        `json:"id"`
	CustomerName    string           `json:"customer_name"`
	CustomerEmail   string           `json:"customer_email"`
	CustomerPhone   string           `json:"customer_phone,omitempty"`
	DeliveryAddress string           `json:"delivery_address"`
	Items           types.OrderItems `json:"items"`
	TotalAmount     string           `json:"total_amount"`
	Status          string           `json:"status"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

func newOrderResponse(order models.Order) orderResponse {
	return orderResponse{
		ID:              order.ID,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		DeliveryAddress: order.DeliveryAddress,
		Items:           order.Items,
		TotalAmount:     order.TotalAmount.StringFixed(2),
		Status:          order.Status.String(),
		Notes:           order.Notes,
		CreatedAt:       order.CreatedAt,
	}
}
