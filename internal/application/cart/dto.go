package cart

import "github.com/storefront/backend/internal/domain/commerce"

// MaxQuantity bounds a single line's quantity
const MaxQuantity = 999

// AddItemInput adds a variant to the shopper's cart. A missing quantity
// means one; an explicit quantity must be at least one.
type AddItemInput struct {
	CartID        string `json:"-"`
	MerchandiseID string `json:"merchandise_id" form:"merchandise_id" binding:"required,max=200"`
	Quantity      *int   `json:"quantity" form:"quantity" binding:"omitempty,min=1,max=999"`
}

// UpdateItemInput sets the quantity of a cart line. The line may be named by
// its ID or by the variant it holds; a zero quantity removes it. The
// quantity is required so a malformed update never removes a line.
type UpdateItemInput struct {
	CartID        string `json:"-"`
	LineID        string `json:"line_id" form:"line_id" binding:"max=200"`
	MerchandiseID string `json:"merchandise_id" form:"merchandise_id" binding:"max=200"`
	Quantity      *int   `json:"quantity" form:"quantity" binding:"required,min=0,max=999"`
}

// Result is the cart after a mutation. Created is set when the mutation
// had to start a new cart, so the caller can reissue the cart cookie.
type Result struct {
	Cart    *commerce.Cart `json:"cart"`
	Created bool           `json:"created"`
}
