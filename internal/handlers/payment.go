// internal/handlers/payment.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/karigarh/marketplace-backend/internal/services"
	"github.com/karigarh/marketplace-backend/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	productService *services.ProductService
}

func NewPaymentHandler(paymentService *services.PaymentService, productService *services.ProductService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		productService: productService,
	}
}

// CheckoutConfig hands the client what it needs to open the payment widget.
func (h *PaymentHandler) CheckoutConfig(c *gin.Context) {
	utils.SuccessResponse(c, h.paymentService.CheckoutConfig())
}

// Quote returns the display fee split for a product and quantity. Nothing is
// reserved or charged here.
func (h *PaymentHandler) Quote(c *gin.Context) {
	productID := c.Query("product_id")
	if productID == "" {
		utils.BadRequestResponse(c, "product_id is required", nil)
		return
	}

	quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	if err != nil || quantity < 1 {
		utils.BadRequestResponse(c, "Invalid quantity", nil)
		return
	}

	id, err := uuid.Parse(productID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, svcErr := h.productService.GetProduct(id)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	utils.SuccessResponse(c, h.paymentService.Quote(product.Price, quantity))
}
