package testutil

import (
	"context"

	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/stretchr/testify/mock"
)

// MockStorefront is a testify mock of commerce.Storefront
type MockStorefront struct {
	mock.Mock
}

func (m *MockStorefront) CreateCart(ctx context.Context) (*commerce.Cart, error) {
	args := m.Called(ctx)
	return cartArg(args, 0), args.Error(1)
}

func (m *MockStorefront) AddToCart(ctx context.Context, cartID string, lines []commerce.CartLineInput) (*commerce.Cart, error) {
	args := m.Called(ctx, cartID, lines)
	return cartArg(args, 0), args.Error(1)
}

func (m *MockStorefront) RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*commerce.Cart, error) {
	args := m.Called(ctx, cartID, lineIDs)
	return cartArg(args, 0), args.Error(1)
}

func (m *MockStorefront) UpdateCart(ctx context.Context, cartID string, lines []commerce.CartLineUpdate) (*commerce.Cart, error) {
	args := m.Called(ctx, cartID, lines)
	return cartArg(args, 0), args.Error(1)
}

func (m *MockStorefront) GetCart(ctx context.Context, cartID string) (*commerce.Cart, error) {
	args := m.Called(ctx, cartID)
	return cartArg(args, 0), args.Error(1)
}

func (m *MockStorefront) GetProduct(ctx context.Context, handle string) (*commerce.Product, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Product), args.Error(1)
}

func (m *MockStorefront) GetProducts(ctx context.Context, q commerce.ProductQuery) (*commerce.ProductPage, error) {
	args := m.Called(ctx, q)
	return productPageArg(args, 0), args.Error(1)
}

func (m *MockStorefront) GetProductRecommendations(ctx context.Context, productID string) ([]commerce.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commerce.Product), args.Error(1)
}

func (m *MockStorefront) GetCollection(ctx context.Context, handle string) (*commerce.Collection, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Collection), args.Error(1)
}

func (m *MockStorefront) GetCollectionProducts(ctx context.Context, handle string, q commerce.ProductQuery) (*commerce.ProductPage, error) {
	args := m.Called(ctx, handle, q)
	return productPageArg(args, 0), args.Error(1)
}

func (m *MockStorefront) GetCollections(ctx context.Context) ([]commerce.Collection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commerce.Collection), args.Error(1)
}

func (m *MockStorefront) GetMenu(ctx context.Context, handle string) ([]commerce.MenuItem, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commerce.MenuItem), args.Error(1)
}

func (m *MockStorefront) GetPage(ctx context.Context, handle string) (*commerce.Page, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Page), args.Error(1)
}

func (m *MockStorefront) GetPages(ctx context.Context) ([]commerce.Page, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commerce.Page), args.Error(1)
}

func (m *MockStorefront) GetBlogArticles(ctx context.Context, blogHandle string, first int, after string) (*commerce.ArticlePage, error) {
	args := m.Called(ctx, blogHandle, first, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.ArticlePage), args.Error(1)
}

func (m *MockStorefront) GetArticle(ctx context.Context, blogHandle, articleHandle string) (*commerce.Article, error) {
	args := m.Called(ctx, blogHandle, articleHandle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Article), args.Error(1)
}

var _ commerce.Storefront = (*MockStorefront)(nil)

// MockCustomerAccounts is a testify mock of commerce.CustomerAccounts
type MockCustomerAccounts struct {
	mock.Mock
}

func (m *MockCustomerAccounts) CreateCustomerAccessToken(ctx context.Context, email, password string) (*commerce.CustomerAccessToken, error) {
	args := m.Called(ctx, email, password)
	return tokenArg(args, 0), args.Error(1)
}

func (m *MockCustomerAccounts) CreateCustomerAccessTokenWithMultipass(ctx context.Context, multipassToken string) (*commerce.CustomerAccessToken, error) {
	args := m.Called(ctx, multipassToken)
	return tokenArg(args, 0), args.Error(1)
}

func (m *MockCustomerAccounts) DeleteCustomerAccessToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockCustomerAccounts) CreateCustomer(ctx context.Context, input commerce.CustomerCreateInput) (*commerce.Customer, error) {
	args := m.Called(ctx, input)
	return customerArg(args, 0), args.Error(1)
}

func (m *MockCustomerAccounts) RecoverCustomer(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockCustomerAccounts) GetCustomer(ctx context.Context, token string) (*commerce.Customer, error) {
	args := m.Called(ctx, token)
	return customerArg(args, 0), args.Error(1)
}

var _ commerce.CustomerAccounts = (*MockCustomerAccounts)(nil)

func cartArg(args mock.Arguments, i int) *commerce.Cart {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*commerce.Cart)
}

func productPageArg(args mock.Arguments, i int) *commerce.ProductPage {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*commerce.ProductPage)
}

func tokenArg(args mock.Arguments, i int) *commerce.CustomerAccessToken {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*commerce.CustomerAccessToken)
}

func customerArg(args mock.Arguments, i int) *commerce.Customer {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(*commerce.Customer)
}
