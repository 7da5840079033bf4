package commerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortBySlug(t *testing.T) {
	assert.Equal(t, "BEST_SELLING", SortBySlug("trending-desc").SortKey)
	assert.True(t, SortBySlug("price-desc").Reverse)
	assert.Equal(t, DefaultSort, SortBySlug("unknown"))
	assert.Equal(t, DefaultSort, SortBySlug(""))
}

func TestFilterProducts(t *testing.T) {
	products := []Product{
		{Handle: "shirt", Title: "Linen Shirt", Vendor: "Acme"},
		{Handle: "mug", Title: "Mug", Tags: []string{"Kitchen", "gift"}},
		{Handle: "cap", Title: "Cap", Vendor: "NorthWind"},
	}

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"shirt", "mug", "cap"}},
		{"  LINEN ", []string{"shirt"}},
		{"kitch", []string{"mug"}},
		{"wind", []string{"cap"}},
		{"a", []string{"shirt", "cap"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := FilterProducts(products, tt.term)
			handles := make([]string, 0, len(got))
			for _, p := range got {
				handles = append(handles, p.Handle)
			}
			assert.Equal(t, tt.want, handles)
		})
	}
}

func TestWithoutHidden(t *testing.T) {
	products := []Product{
		{Handle: "visible"},
		{Handle: "hidden", Tags: []string{"NextJS-Frontend-Hidden"}},
	}
	got := WithoutHidden(products, "nextjs-frontend-hidden")
	assert.Len(t, got, 1)
	assert.Equal(t, "visible", got[0].Handle)
}

func TestMoney(t *testing.T) {
	m := NewMoney("12.5", "USD")
	assert.Equal(t, "$12.50", m.String())
	assert.Equal(t, "3.00 XXXX", NewMoney("3", "XXXX").String())
	assert.True(t, NewMoney("not a number", "USD").IsZero())
}

func TestCustomerDisplayName(t *testing.T) {
	assert.Equal(t, "Ana Li", (&Customer{FirstName: "Ana", LastName: "Li"}).DisplayName())
	assert.Equal(t, "ana@example.com", (&Customer{Email: "ana@example.com"}).DisplayName())
}
