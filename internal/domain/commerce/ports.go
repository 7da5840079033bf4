package commerce

import "context"

// Storefront is the port to the platform's public storefront API.
// Lookups by handle or ID return (nil, nil) when the resource does not exist.
type Storefront interface {
	CreateCart(ctx context.Context) (*Cart, error)
	AddToCart(ctx context.Context, cartID string, lines []CartLineInput) (*Cart, error)
	RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*Cart, error)
	UpdateCart(ctx context.Context, cartID string, lines []CartLineUpdate) (*Cart, error)
	GetCart(ctx context.Context, cartID string) (*Cart, error)

	GetProduct(ctx context.Context, handle string) (*Product, error)
	GetProducts(ctx context.Context, q ProductQuery) (*ProductPage, error)
	GetProductRecommendations(ctx context.Context, productID string) ([]Product, error)
	GetCollection(ctx context.Context, handle string) (*Collection, error)
	GetCollectionProducts(ctx context.Context, handle string, q ProductQuery) (*ProductPage, error)
	GetCollections(ctx context.Context) ([]Collection, error)

	GetMenu(ctx context.Context, handle string) ([]MenuItem, error)
	GetPage(ctx context.Context, handle string) (*Page, error)
	GetPages(ctx context.Context) ([]Page, error)
	GetBlogArticles(ctx context.Context, blogHandle string, first int, after string) (*ArticlePage, error)
	GetArticle(ctx context.Context, blogHandle, articleHandle string) (*Article, error)
}

// CustomerAccounts is the port to the platform's customer account API
type CustomerAccounts interface {
	CreateCustomerAccessToken(ctx context.Context, email, password string) (*CustomerAccessToken, error)
	CreateCustomerAccessTokenWithMultipass(ctx context.Context, multipassToken string) (*CustomerAccessToken, error)
	DeleteCustomerAccessToken(ctx context.Context, token string) error
	CreateCustomer(ctx context.Context, input CustomerCreateInput) (*Customer, error)
	RecoverCustomer(ctx context.Context, email string) error
	GetCustomer(ctx context.Context, token string) (*Customer, error)
}
