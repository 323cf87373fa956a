// internal/handlers/product.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/karigarh/marketplace-backend/internal/i18n"
	"github.com/karigarh/marketplace-backend/internal/services"
	"github.com/karigarh/marketplace-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	product, err := h.productService.CreateProduct(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
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

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	product, svcErr := h.productService.UpdateProduct(userID, productID, &req)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	utils.SuccessResponse(c, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
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

	if err := h.productService.DeleteProduct(userID, productID); err != nil {
		respondServiceError(c, err)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyProductDeleted)})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, svcErr := h.productService.GetProduct(productID)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	utils.SuccessResponse(c, product)
}

// ListProducts dispatches on query filters: ?producer_id=, ?region=,
// ?rarity=, ?min_price=&max_price=, ?in_stock=true, or no filter for the
// full verified storefront.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var (
		result *utils.PaginationResult
		err    error
	)

	switch {
	case c.Query("producer_id") != "":
		var producerID uuid.UUID
		producerID, err = uuid.Parse(c.Query("producer_id"))
		if err != nil {
			utils.BadRequestResponse(c, "Invalid producer ID", nil)
			return
		}
		result, err = h.productService.ListProductsByProducer(producerID, params)
	case c.Query("region") != "":
		result, err = h.productService.ListProductsByRegion(c.Query("region"), params)
	case c.Query("rarity") != "":
		result, err = h.productService.ListProductsByRarity(c.Query("rarity"), params)
	case c.Query("min_price") != "" || c.Query("max_price") != "":
		minPrice, _ := strconv.ParseInt(c.DefaultQuery("min_price", "0"), 10, 64)
		maxPrice, _ := strconv.ParseInt(c.DefaultQuery("max_price", "0"), 10, 64)
		result, err = h.productService.ListProductsByPriceRange(minPrice, maxPrice, params)
	case c.Query("in_stock") == "true":
		result, err = h.productService.ListProductsInStock(params)
	default:
		result, err = h.productService.ListVerifiedProducts(params)
	}

	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// ListAllProducts is the unfiltered back-office listing: products of pending
// and rejected producers included.
func (h *ProductHandler) ListAllProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.productService.ListProducts(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}
