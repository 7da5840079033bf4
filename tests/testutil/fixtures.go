package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/infrastructure/event"
)

// Fixtures builds deterministic commerce entities from a seeded faker.
type Fixtures struct {
	faker *gofakeit.Faker
	seq   int
}

// NewFixtures creates a fixture builder; equal seeds yield equal entities.
func NewFixtures(seed uint64) *Fixtures {
	return &Fixtures{faker: gofakeit.New(seed)}
}

func (f *Fixtures) next() int {
	f.seq++
	return f.seq
}

func (f *Fixtures) handle(title string) string {
	h := strings.ToLower(strings.Join(strings.Fields(title), "-"))
	return fmt.Sprintf("%s-%d", h, f.seq)
}

// Product returns an available product with one variant in USD.
func (f *Fixtures) Product(tags ...string) commerce.Product {
	n := f.next()
	title := f.faker.ProductName()
	price := decimal.NewFromFloat(f.faker.Price(5, 200)).Round(2)
	money := commerce.Money{Amount: price, CurrencyCode: "USD"}
	image := &commerce.Image{URL: f.faker.URL() + "/p.jpg", AltText: title, Width: 800, Height: 800}
	if tags == nil {
		tags = []string{f.faker.ProductCategory()}
	}
	return commerce.Product{
		ID:               fmt.Sprintf("gid://shopify/Product/%d", n),
		Handle:           f.handle(title),
		AvailableForSale: true,
		Title:            title,
		Description:      f.faker.ProductName() + " " + f.faker.Noun(),
		Options:          []commerce.ProductOption{{ID: fmt.Sprintf("opt-%d", n), Name: "Title", Values: []string{"Default Title"}}},
		PriceRange:       commerce.PriceRange{MinVariantPrice: money, MaxVariantPrice: money},
		Variants: []commerce.ProductVariant{{
			ID:               fmt.Sprintf("gid://shopify/ProductVariant/%d", n),
			Title:            "Default Title",
			AvailableForSale: true,
			SelectedOptions:  []commerce.SelectedOption{{Name: "Title", Value: "Default Title"}},
			Price:            money,
		}},
		FeaturedImage: image,
		Images:        []commerce.Image{*image},
		Tags:          tags,
		Vendor:        f.faker.Company(),
		ProductType:   f.faker.ProductCategory(),
		UpdatedAt:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Products returns n products.
func (f *Fixtures) Products(n int) []commerce.Product {
	out := make([]commerce.Product, n)
	for i := range out {
		out[i] = f.Product()
	}
	return out
}

// Collection returns a visible collection.
func (f *Fixtures) Collection() commerce.Collection {
	f.next()
	title := f.faker.Adjective() + " " + f.faker.Noun()
	handle := f.handle(title)
	return commerce.Collection{
		Handle:      handle,
		Title:       title,
		Description: f.faker.ProductName(),
		UpdatedAt:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Path:        "/search/" + handle,
	}
}

// Cart returns a cart holding one line of each product.
func (f *Fixtures) Cart(products ...commerce.Product) *commerce.Cart {
	n := f.next()
	cart := &commerce.Cart{
		ID:          fmt.Sprintf("gid://shopify/Cart/%d", n),
		CheckoutURL: fmt.Sprintf("https://shop.example.com/checkouts/%d", n),
	}
	total := decimal.Zero
	for i, p := range products {
		v := p.Variants[0]
		cart.Lines = append(cart.Lines, commerce.CartLine{
			ID:       fmt.Sprintf("gid://shopify/CartLine/%d-%d", n, i),
			Quantity: 1,
			Cost:     commerce.CartLineCost{TotalAmount: v.Price},
			Merchandise: commerce.Merchandise{
				ID:              v.ID,
				Title:           v.Title,
				SelectedOptions: v.SelectedOptions,
				Product:         commerce.CartProduct{ID: p.ID, Handle: p.Handle, Title: p.Title, FeaturedImage: p.FeaturedImage},
			},
		})
		cart.TotalQuantity++
		total = total.Add(v.Price.Amount)
	}
	amount := commerce.Money{Amount: total, CurrencyCode: "USD"}
	cart.Cost = commerce.CartCost{SubtotalAmount: amount, TotalAmount: amount, TotalTaxAmount: commerce.NewMoney("0", "USD")}
	return cart
}

// Article returns an article in blogHandle published at publishedAt.
func (f *Fixtures) Article(blogHandle string, publishedAt time.Time, tags ...string) commerce.Article {
	n := f.next()
	title := f.faker.Adjective() + " " + f.faker.Noun() + " " + f.faker.Word()
	return commerce.Article{
		ID:          fmt.Sprintf("gid://shopify/Article/%d", n),
		Handle:      f.handle(title),
		BlogHandle:  blogHandle,
		Title:       title,
		Excerpt:     f.faker.ProductName(),
		ContentHTML: "<p>" + f.faker.ProductName() + "</p>",
		PublishedAt: publishedAt,
		Tags:        tags,
		Author:      f.faker.FirstName() + " " + f.faker.LastName(),
	}
}

// Customer returns a customer without orders.
func (f *Fixtures) Customer() *commerce.Customer {
	n := f.next()
	return &commerce.Customer{
		ID:        fmt.Sprintf("gid://shopify/Customer/%d", n),
		FirstName: f.faker.FirstName(),
		LastName:  f.faker.LastName(),
		Email:     f.faker.Email(),
	}
}

// CustomerToken returns a platform customer access token valid for ttl.
func CustomerToken(token string, ttl time.Duration) commerce.CustomerAccessToken {
	return commerce.CustomerAccessToken{Token: token, ExpiresAt: time.Now().Add(ttl)}
}

// RecordingPublisher is an event.Publisher that keeps every published event.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
	Err    error
}

// Publish implements event.Publisher
func (p *RecordingPublisher) Publish(_ context.Context, events ...event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.Err
}

// Close implements event.Publisher
func (p *RecordingPublisher) Close(context.Context) error { return nil }

// Events returns a copy of the published events.
func (p *RecordingPublisher) Events() []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.Event(nil), p.events...)
}

// Types returns the types of the published events in order.
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
