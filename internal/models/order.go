// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// Order references are immutable after creation: status is the only column
// any post-creation write path touches.
type Order struct {
	BaseModel
	BuyerID          uuid.UUID   `json:"buyer_id" gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID   `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity         int         `json:"quantity" gorm:"not null"`
	Status           OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentReference string      `json:"payment_reference,omitempty" gorm:"size:255"`

	// Relationships
	Buyer   User    `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// orderTransitions is the full set of legal status edges. delivered and
// cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
