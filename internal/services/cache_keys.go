// internal/services/cache_keys.go
package services

// Query families for the read-through cache. Every cached read is addressed
// by (family, discriminating params); every mutation invalidates a fixed set
// of families listed below. The sets are conservative: dropping too much is
// harmless, dropping too little breaks read-your-writes.
const (
	FamilyProducers         = "producers"
	FamilyVerifiedProducers = "verifiedProducers"
	FamilyProducer          = "producer"
	FamilyIsFollowing       = "isFollowing"
	FamilyFollowerCount     = "followerCount"

	FamilyProducts           = "products"
	FamilyVerifiedProducts   = "verifiedProducts"
	FamilyProductsInStock    = "productsInStock"
	FamilyProductsByProducer = "productsByProducer"
	FamilyProductsByRegion   = "productsByRegion"
	FamilyProductsByPrice    = "productsByPrice"
	FamilyProductsByRarity   = "productsByRarity"
	FamilyProduct            = "product"

	FamilyOrder           = "order"
	FamilyOrders          = "orders"
	FamilyOrdersByBuyer   = "ordersByBuyer"
	FamilyOrdersByProduct = "ordersByProduct"
	FamilyOrdersByStatus  = "ordersByStatus"

	FamilyLiveStreams           = "liveStreams"
	FamilyLiveStreamsByProducer = "liveStreamsByProducer"
	FamilyLiveStreamsByStatus   = "liveStreamsByStatus"
	FamilyLiveStreamsByRegion   = "liveStreamsByRegions"
	FamilyLiveStream            = "liveStream"

	FamilyApprovals = "approvals"
)

// productListFamilies covers every listing a product write or a stock change
// can be visible through.
var productListFamilies = []string{
	FamilyProducts,
	FamilyVerifiedProducts,
	FamilyProductsInStock,
	FamilyProductsByProducer,
	FamilyProductsByRegion,
	FamilyProductsByPrice,
	FamilyProductsByRarity,
}

// orderCreateInvalidates: a successful order decrements stock, so product
// listings are stale too, not just the order listings.
var orderCreateInvalidates = append([]string{
	FamilyOrders,
	FamilyOrdersByBuyer,
	FamilyOrdersByProduct,
	FamilyOrdersByStatus,
	FamilyProduct,
}, productListFamilies...)

var orderStatusInvalidates = []string{
	FamilyOrder,
	FamilyOrders,
	FamilyOrdersByBuyer,
	FamilyOrdersByProduct,
	FamilyOrdersByStatus,
}

// producerWriteInvalidates includes the region-keyed stream listing because
// a profile edit can move the producer to a different region.
var producerWriteInvalidates = []string{
	FamilyProducers,
	FamilyVerifiedProducers,
	FamilyProducer,
	FamilyApprovals,
	FamilyLiveStreamsByRegion,
}

var followInvalidates = []string{
	FamilyProducer,
	FamilyProducers,
	FamilyVerifiedProducers,
	FamilyIsFollowing,
	FamilyFollowerCount,
}

// approvalInvalidates: flipping a producer's trust status changes which
// products are discoverable as well.
var approvalInvalidates = []string{
	FamilyProducers,
	FamilyVerifiedProducers,
	FamilyProducer,
	FamilyVerifiedProducts,
	FamilyApprovals,
}

var liveStreamWriteInvalidates = []string{
	FamilyLiveStreams,
	FamilyLiveStreamsByProducer,
	FamilyLiveStreamsByStatus,
	FamilyLiveStreamsByRegion,
	FamilyLiveStream,
}
