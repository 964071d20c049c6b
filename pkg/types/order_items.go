package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is one cart line frozen into an order at submission time.
type OrderItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// OrderItems is stored as a single JSON column on the order row.
type OrderItems []OrderItem

// Value implements driver.Valuer.
func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("marshaling order items: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (o *OrderItems) Scan(value any) error {
	if value == nil {
		*o = OrderItems{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported order items column type %T", value)
	}
	if len(raw) == 0 {
		*o = OrderItems{}
		return nil
	}
	return json.Unmarshal(raw, o)
}

// StringList is stored as a JSON array column (product benefits).
type StringList []string

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling string list: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(value any) error {
	if value == nil {
		*s = StringList{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported string list column type %T", value)
	}
	if len(raw) == 0 {
		*s = StringList{}
		return nil
	}
	return json.Unmarshal(raw, s)
}
