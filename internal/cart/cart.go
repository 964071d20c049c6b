package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one product's entry in a cart. Price is snapshotted when the
// item is first added and never re-read from the catalog, so later price
// changes do not retroactively affect an existing cart.
type LineItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is the line's full-precision price*quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is the ordered set of line items for one storefront profile. At most
// one line item exists per product id; every quantity is a positive integer.
type Cart struct {
	Items []LineItem `json:"items"`
}

// TotalAmount sums price*quantity over all line items. The result stays a
// full-precision decimal; rounding to two places happens only at the
// presentation edge.
func (c Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ItemCount sums the quantities across all line items.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindItem returns the line item for the given product id, if present.
func (c Cart) FindItem(productID uuid.UUID) (LineItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return LineItem{}, false
}

// IsEmpty reports whether the cart holds no line items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
