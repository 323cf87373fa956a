// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/karigarh/marketplace-backend/internal/models"
	"github.com/karigarh/marketplace-backend/internal/services"
	"github.com/karigarh/marketplace-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), buyerID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, order)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, svcErr := h.orderService.GetOrder(orderID)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	// Only the buyer and the selling producer may see an order.
	userType, _ := utils.GetUserTypeFromContext(c)
	if order.BuyerID != userID && order.Product.ProducerID != userID && userType != string(models.UserTypeAdmin) {
		utils.ForbiddenResponse(c, "")
		return
	}

	utils.SuccessResponse(c, order)
}

// MyOrders returns the caller's purchase history, newest first.
func (h *OrderHandler) MyOrders(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orders, err := h.orderService.GetOrdersByBuyer(buyerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, orders)
}

// ProductOrders lists the orders against one product for its producer.
func (h *OrderHandler) ProductOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	orders, svcErr := h.orderService.GetOrdersByProduct(productID)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	userType, _ := utils.GetUserTypeFromContext(c)
	if userType != string(models.UserTypeAdmin) {
		for _, order := range orders {
			if order.Product.ProducerID != userID {
				utils.ForbiddenResponse(c, "")
				return
			}
		}
	}

	utils.SuccessResponse(c, orders)
}

// AllOrders is the unfiltered admin order listing.
func (h *OrderHandler) AllOrders(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.orderService.ListAllOrders(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// OrdersByStatus is an admin reconciliation surface.
func (h *OrderHandler) OrdersByStatus(c *gin.Context) {
	status := models.OrderStatus(c.Param("status"))
	if !status.Valid() {
		utils.BadRequestResponse(c, "Invalid order status", nil)
		return
	}

	orders, err := h.orderService.GetOrdersByStatus(status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, orders)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	order, svcErr := h.orderService.UpdateOrderStatus(userID, orderID, req.Status)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	utils.SuccessResponse(c, order)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, svcErr := h.orderService.CancelOrder(userID, orderID)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	utils.SuccessResponse(c, order)
}
