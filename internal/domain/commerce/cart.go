package commerce

// CartCost holds the cart totals computed by the platform
type CartCost struct {
	SubtotalAmount Money `json:"subtotalAmount"`
	TotalAmount    Money `json:"totalAmount"`
	TotalTaxAmount Money `json:"totalTaxAmount"`
}

// CartProduct is the product summary embedded in a cart line
type CartProduct struct {
	ID            string `json:"id"`
	Handle        string `json:"handle"`
	Title         string `json:"title"`
	FeaturedImage *Image `json:"featuredImage,omitempty"`
}

// Merchandise is the variant a cart line refers to
type Merchandise struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
	Product         CartProduct      `json:"product"`
}

// CartLineCost is the platform-computed cost of one line
type CartLineCost struct {
	TotalAmount Money `json:"totalAmount"`
}

// CartLine is one variant and quantity in the cart
type CartLine struct {
	ID          string       `json:"id"`
	Quantity    int          `json:"quantity"`
	Cost        CartLineCost `json:"cost"`
	Merchandise Merchandise  `json:"merchandise"`
}

// Cart is the platform-side shopping cart
type Cart struct {
	ID            string     `json:"id"`
	CheckoutURL   string     `json:"checkoutUrl"`
	Cost          CartCost   `json:"cost"`
	Lines         []CartLine `json:"lines"`
	TotalQuantity int        `json:"totalQuantity"`
}

// Line finds a cart line by ID
func (c *Cart) Line(lineID string) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.ID == lineID {
			return l, true
		}
	}
	return CartLine{}, false
}

// LineForMerchandise finds the line holding a given variant
func (c *Cart) LineForMerchandise(merchandiseID string) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.Merchandise.ID == merchandiseID {
			return l, true
		}
	}
	return CartLine{}, false
}

// CartLineInput adds a variant to a cart
type CartLineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// CartLineUpdate changes the quantity of an existing line
type CartLineUpdate struct {
	ID            string `json:"id"`
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}
