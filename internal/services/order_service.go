// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/karigarh/marketplace-backend/internal/apperrors"
	"github.com/karigarh/marketplace-backend/internal/cache"
	"github.com/karigarh/marketplace-backend/internal/config"
	"github.com/karigarh/marketplace-backend/internal/models"
	"github.com/karigarh/marketplace-backend/internal/utils"
)

type OrderService struct {
	db      *gorm.DB
	cache   *cache.Cache
	gateway PaymentGateway
	cfg     *config.Config
}

type CreateOrderRequest struct {
	ProductID        uuid.UUID `json:"product_id" validate:"required"`
	Quantity         int       `json:"quantity" validate:"required,min=1"`
	PaymentReference string    `json:"payment_reference,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

func NewOrderService(db *gorm.DB, c *cache.Cache, gateway PaymentGateway, cfg *config.Config) *OrderService {
	return &OrderService{
		db:      db,
		cache:   c,
		gateway: gateway,
		cfg:     cfg,
	}
}

// CreateOrder validates stock, settles payment when policy demands it, then
// performs the decrement-and-create as one database transaction. Any failure
// before the transaction leaves no side effects; a failure inside it rolls
// everything back, so the caller never observes a decrement without an order
// or an order without a decrement. The creation is not retried here: it is
// not idempotent, and a duplicate would double-charge stock.
func (s *OrderService) CreateOrder(ctx context.Context, buyerID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Fast local check; the authoritative check is the conditional UPDATE
	// inside the transaction below.
	if req.Quantity > product.Stock {
		return nil, apperrors.ErrInsufficientStock
	}

	paymentRef, err := s.settlePayment(ctx, buyerID, &product, req)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		BuyerID:          buyerID,
		ProductID:        product.ID,
		Quantity:         req.Quantity,
		Status:           models.OrderStatusPending,
		PaymentReference: paymentRef,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Conditional decrement: rows affected is zero when a concurrent
		// order drained the stock between our read and this write.
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", product.ID, req.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", req.Quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to decrement stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrInsufficientStock
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(orderCreateInvalidates...)

	// The order is committed at this point; a failed reload only costs the
	// caller the preloaded product.
	if err := s.db.Preload("Product").First(order, "id = ?", order.ID).Error; err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Warn("Failed to reload order after create")
	}

	return order, nil
}

// settlePayment returns the payment proof to record on the order. A proof
// supplied by the caller is verified against the gateway; otherwise, if
// policy requires upfront payment, the gateway is charged here. A cancelled
// or failed payment surfaces unchanged and nothing has been mutated yet.
func (s *OrderService) settlePayment(ctx context.Context, buyerID uuid.UUID, product *models.Product, req *CreateOrderRequest) (string, error) {
	if req.PaymentReference != "" {
		if s.gateway == nil {
			return "", apperrors.ErrGatewayUnavailable
		}
		if err := s.gateway.Verify(ctx, req.PaymentReference); err != nil {
			return "", err
		}
		return req.PaymentReference, nil
	}

	if !s.cfg.Payment.RequireUpfront {
		return "", nil
	}

	if s.gateway == nil {
		return "", apperrors.ErrPaymentRequired
	}

	amount := product.Price * int64(req.Quantity)
	metadata := map[string]string{
		"buyer_id":   buyerID.String(),
		"product_id": product.ID.String(),
		"quantity":   fmt.Sprintf("%d", req.Quantity),
	}

	return s.gateway.Charge(ctx, amount, metadata)
}

func (s *OrderService) GetOrder(id uuid.UUID) (*models.Order, error) {
	key := cache.Key{Family: FamilyOrder, Param: id.String()}

	v, err := s.cache.GetOrLoad(key, func() (interface{}, error) {
		var order models.Order
		if err := s.db.Preload("Product").First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrNotFound
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		return &order, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*models.Order), nil
}

// ListAllOrders is the admin reconciliation view across every buyer and
// product.
func (s *OrderService) ListAllOrders(params utils.PaginationParams) (*utils.PaginationResult, error) {
	key := cache.Key{Family: FamilyOrders, Param: params.Fingerprint()}

	v, err := s.cache.GetOrLoad(key, func() (interface{}, error) {
		query := s.db.Model(&models.Order{})

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return nil, fmt.Errorf("failed to count orders: %w", err)
		}

		var orders []models.Order
		query = utils.ApplySort(query, params, []string{"created_at", "status"})
		query = utils.ApplyPagination(query, params)
		if err := query.Preload("Product").Find(&orders).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch orders: %w", err)
		}

		result := utils.CreatePaginationResult(orders, total, params)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*utils.PaginationResult), nil
}

func (s *OrderService) GetOrdersByBuyer(buyerID uuid.UUID) ([]models.Order, error) {
	key := cache.Key{Family: FamilyOrdersByBuyer, Param: buyerID.String()}
	return s.loadOrders(key, func(q *gorm.DB) *gorm.DB {
		return q.Where("buyer_id = ?", buyerID)
	})
}

func (s *OrderService) GetOrdersByProduct(productID uuid.UUID) ([]models.Order, error) {
	key := cache.Key{Family: FamilyOrdersByProduct, Param: productID.String()}
	return s.loadOrders(key, func(q *gorm.DB) *gorm.DB {
		return q.Where("product_id = ?", productID)
	})
}

func (s *OrderService) GetOrdersByStatus(status models.OrderStatus) ([]models.Order, error) {
	key := cache.Key{Family: FamilyOrdersByStatus, Param: string(status)}
	return s.loadOrders(key, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", status)
	})
}

func (s *OrderService) loadOrders(key cache.Key, scope func(*gorm.DB) *gorm.DB) ([]models.Order, error) {
	v, err := s.cache.GetOrLoad(key, func() (interface{}, error) {
		var orders []models.Order
		q := scope(s.db.Model(&models.Order{})).
			Preload("Product").
			Order("created_at DESC")
		if err := q.Find(&orders).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch orders: %w", err)
		}
		return orders, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]models.Order), nil
}

// UpdateOrderStatus applies one lifecycle edge. The buyer may only cancel a
// pending order; the owning producer may advance the order and may cancel
// while cancellation is still a legal edge. Everyone else is refused. Only
// the status column is written, so product reference and quantity stay
// immutable for the order's whole life.
func (s *OrderService) UpdateOrderStatus(actorID uuid.UUID, orderID uuid.UUID, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, apperrors.ErrInvalidTransition
	}

	var order models.Order
	if err := s.db.Preload("Product").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, apperrors.ErrInvalidTransition
	}

	isBuyer := actorID == order.BuyerID
	isOwner := actorID == order.Product.ProducerID

	switch {
	case isOwner:
		// Owning producer may take any legal edge.
	case isBuyer:
		if next != models.OrderStatusCancelled || order.Status != models.OrderStatusPending {
			return nil, apperrors.ErrForbidden
		}
	default:
		return nil, apperrors.ErrForbidden
	}

	// Re-validated at write time: the guard on the old status means a
	// concurrent transition since our read leaves zero rows affected instead
	// of committing an edge that was never checked.
	res := s.db.Model(&order).
		Where("status = ?", order.Status).
		Update("status", next)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrInvalidTransition
	}

	s.cache.Invalidate(orderStatusInvalidates...)

	order.Status = next
	return &order, nil
}

func (s *OrderService) CancelOrder(actorID uuid.UUID, orderID uuid.UUID) (*models.Order, error) {
	return s.UpdateOrderStatus(actorID, orderID, models.OrderStatusCancelled)
}
