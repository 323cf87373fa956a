// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karigarh/marketplace-backend/internal/apperrors"
	"github.com/karigarh/marketplace-backend/internal/models"
	"github.com/karigarh/marketplace-backend/internal/utils"
)

func listParams() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

func TestCreateProductRequiresProducerProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db, newTestCache())

	user := createTestUser(t, db, models.UserTypeProducer)

	_, err := svc.CreateProduct(user.ID, &CreateProductRequest{
		Title: "Handwoven Shawl",
		Price: 45000,
		Stock: 5,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCreateProductForProfiledProducer(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db, newTestCache())

	user, _ := createTestProducer(t, db, models.ApprovalStatusPending)

	product, err := svc.CreateProduct(user.ID, &CreateProductRequest{
		Title:  "Handwoven Shawl",
		Price:  45000,
		Stock:  5,
		Region: "Kutch",
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, product.ProducerID)
	assert.Equal(t, int64(45000), product.Price)
	assert.Equal(t, 5, product.Stock)
}

func TestUpdateProductOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db, newTestCache())

	owner, _ := createTestProducer(t, db, models.ApprovalStatusApproved)
	other, _ := createTestProducer(t, db, models.ApprovalStatusApproved)
	product := createTestProduct(t, db, owner.ID, 45000, 5)

	newTitle := "Bandhani Dupatta"
	_, err := svc.UpdateProduct(other.ID, product.ID, &UpdateProductRequest{Title: &newTitle})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := svc.UpdateProduct(owner.ID, product.ID, &UpdateProductRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Bandhani Dupatta", updated.Title)
	assert.Equal(t, int64(45000), updated.Price)
}

func TestDeleteProductOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db, newTestCache())

	owner, _ := createTestProducer(t, db, models.ApprovalStatusApproved)
	other, _ := createTestProducer(t, db, models.ApprovalStatusApproved)
	product := createTestProduct(t, db, owner.ID, 45000, 5)

	assert.ErrorIs(t, svc.DeleteProduct(other.ID, product.ID), apperrors.ErrForbidden)

	require.NoError(t, svc.DeleteProduct(owner.ID, product.ID))
	_, err := svc.GetProduct(product.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestVerifiedListingFollowsApprovalStatus(t *testing.T) {
	db := setupTestDB(t)
	c := newTestCache()
	productSvc := NewProductService(db, c)
	approvalSvc := NewApprovalService(db, c)

	admin := createTestUser(t, db, models.UserTypeAdmin)
	producerUser, _ := createTestProducer(t, db, models.ApprovalStatusPending)
	product := createTestProduct(t, db, producerUser.ID, 45000, 5)

	// Pending producer: product hidden from the storefront.
	result, err := productSvc.ListVerifiedProducts(listParams())
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Total)

	// Approval makes it visible on the next read.
	_, err = approvalSvc.ApproveProducer(admin.ID, producerUser.ID, "127.0.0.1")
	require.NoError(t, err)

	result, err = productSvc.ListVerifiedProducts(listParams())
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Total)
	products := result.Data.([]models.Product)
	assert.Equal(t, product.ID, products[0].ID)

	// Rejection hides it again, but the record itself survives.
	_, err = approvalSvc.RejectProducer(admin.ID, producerUser.ID, "127.0.0.1")
	require.NoError(t, err)

	result, err = productSvc.ListVerifiedProducts(listParams())
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Total)

	all, err := productSvc.ListProducts(listParams())
	require.NoError(t, err)
	assert.Equal(t, int64(1), all.Total)
}

func TestProductListsReflectOwnWrites(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db, newTestCache())

	user, _ := createTestProducer(t, db, models.ApprovalStatusApproved)

	// Prime the cache, then create.
	result, err := svc.ListProductsByProducer(user.ID, listParams())
	require.NoError(t, err)
	require.Equal(t, int64(0), result.Total)

	_, err = svc.CreateProduct(user.ID, &CreateProductRequest{
		Title: "Handwoven Shawl",
		Price: 45000,
		Stock: 5,
	})
	require.NoError(t, err)

	result, err = svc.ListProductsByProducer(user.ID, listParams())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
}

func TestListProductsInStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db, newTestCache())

	user, _ := createTestProducer(t, db, models.ApprovalStatusApproved)
	createTestProduct(t, db, user.ID, 45000, 5)
	createTestProduct(t, db, user.ID, 30000, 0)

	result, err := svc.ListProductsInStock(listParams())
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Total)

	products := result.Data.([]models.Product)
	assert.True(t, products[0].InStock())
}

func TestListProductsByPriceRange(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProductService(db, newTestCache())

	user, _ := createTestProducer(t, db, models.ApprovalStatusApproved)
	createTestProduct(t, db, user.ID, 10000, 1)
	createTestProduct(t, db, user.ID, 50000, 1)
	createTestProduct(t, db, user.ID, 90000, 1)

	result, err := svc.ListProductsByPriceRange(20000, 60000, listParams())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	// Unbounded above.
	result, err = svc.ListProductsByPriceRange(20000, 0, listParams())
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
}
